package app

import "time"

// ReportRequest selects the week file to summarize. File wins over Week;
// with neither, the week containing Now is used. Day filters by day of
// month when non-zero.
type ReportRequest struct {
	File string
	Week *time.Time
	Day  int
	Now  *time.Time
}

// CategoryTotal is the time spent on one category.
type CategoryTotal struct {
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// DayTotal is the per-category breakdown of one calendar day.
type DayTotal struct {
	Date       string         `json:"date"`
	Minutes    int            `json:"minutes"`
	ByCategory map[string]int `json:"by_category"`
}

// Report summarizes one week file.
type Report struct {
	File         string          `json:"file"`
	Categories   []CategoryTotal `json:"categories"`
	Days         []DayTotal      `json:"days"`
	TotalMinutes int             `json:"total_minutes"`
	TotalHours   float64         `json:"total_hours"`
	Skipped      []string        `json:"skipped,omitempty"`
}
