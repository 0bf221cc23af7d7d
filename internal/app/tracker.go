package app

import (
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
)

// SlotView is one subcategory slot as presented to the user.
type SlotView struct {
	Digit    int
	Label    string
	Selected bool
}

// TrackerView is a render-only snapshot of the tracker. Presentation reads
// it and never mutates tracker state directly.
type TrackerView struct {
	Active       bool
	Category     domain.Category
	StartedAt    time.Time
	Elapsed      time.Duration
	SubcatIndex  int
	Note         string
	AwaitingNote bool
	Slots        []SlotView
	Categories   []domain.Category
	Pending      int
}

// HasSubcategory reports whether a slot is selected.
func (v TrackerView) HasSubcategory() bool {
	return v.Active && v.SubcatIndex >= 0
}

// Outcome is what one handled event produced.
type Outcome struct {
	View    TrackerView
	Written []domain.LogEntry
	Ignored domain.IgnoreReason
}

// RecoveryResult describes a session restored from a crashed run.
type RecoveryResult struct {
	Recovered bool
	Session   domain.Session
	EndedAt   time.Time
	Entries   []domain.LogEntry
}
