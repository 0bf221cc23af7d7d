package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/weeklog"
)

// WeekFiles resolves week file paths.
type WeekFiles interface {
	Path(date time.Time) string
}

type reportService struct {
	files      WeekFiles
	categories CategoryLookup
	now        func() time.Time
	observer   UseCaseObserver
}

func NewReportService(files WeekFiles, categories CategoryLookup, observers ...UseCaseObserver) ReportService {
	return &reportService{
		files:      files,
		categories: categories,
		now:        time.Now,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) WeekFile(_ context.Context, req app.ReportRequest) (string, error) {
	if req.Day < 0 || req.Day > 31 {
		return "", fmt.Errorf("day %d out of range 1-31", req.Day)
	}
	switch {
	case req.File != "":
		return req.File, nil
	case req.Week != nil:
		return s.files.Path(*req.Week), nil
	case req.Now != nil:
		return s.files.Path(*req.Now), nil
	}
	return s.files.Path(s.now()), nil
}

// Report totals a week file per category and per day. Every legend
// category is listed, in legend order, followed by keys found in the file
// that the legend does not know.
func (s *reportService) Report(ctx context.Context, req app.ReportRequest) (rep *app.Report, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "report", startedAt, fields, err) }()

	path, err := s.WeekFile(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["file"] = path

	records, bad, err := weeklog.ReadFile(path)
	if err != nil {
		return nil, err
	}

	byCat := map[string]int{}
	byDay := map[string]*app.DayTotal{}
	total := 0
	for _, r := range records {
		if req.Day != 0 && r.Date.Day() != req.Day {
			continue
		}
		m := r.Minutes()
		byCat[r.Category] += m
		total += m

		key := r.Date.Format("2006-01-02")
		d, ok := byDay[key]
		if !ok {
			d = &app.DayTotal{Date: key, ByCategory: map[string]int{}}
			byDay[key] = d
		}
		d.Minutes += m
		d.ByCategory[r.Category] += m
	}

	rep = &app.Report{File: path, TotalMinutes: total, TotalHours: hours(total)}
	seen := map[string]bool{}
	for _, c := range s.categories.List() {
		seen[c.Key] = true
		rep.Categories = append(rep.Categories, app.CategoryTotal{
			Key:     c.Key,
			Name:    c.Name,
			Color:   c.Color.Hex(),
			Minutes: byCat[c.Key],
			Hours:   hours(byCat[c.Key]),
		})
	}
	var unknown []string
	for k := range byCat {
		if !seen[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		rep.Categories = append(rep.Categories, app.CategoryTotal{
			Key:     k,
			Name:    k,
			Minutes: byCat[k],
			Hours:   hours(byCat[k]),
		})
	}

	for _, d := range byDay {
		rep.Days = append(rep.Days, *d)
	}
	sort.Slice(rep.Days, func(i, j int) bool { return rep.Days[i].Date < rep.Days[j].Date })

	for _, e := range bad {
		rep.Skipped = append(rep.Skipped, e.Error())
	}
	fields["records"] = len(records)
	fields["skipped"] = len(bad)
	return rep, nil
}

func hours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}
