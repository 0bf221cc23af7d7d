package service

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/category"
	"github.com/alexanderramin/punchclock/internal/testutil"
	"github.com/alexanderramin/punchclock/internal/weeklog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWeek = `a 2025/03/10 09:00-10:30
b 2025/03/10 10:30-10:45 # coffee
a 2025/03/10 10:45-11:00
a 2025/03/11 08:00-09:00

x 2025/03/11 09:00-09:30
garbage line
`

func newReportFixture(t *testing.T) (ReportService, *weeklog.Writer) {
	t.Helper()
	registry, err := category.Parse(strings.NewReader(testutil.Legend))
	require.NoError(t, err)
	files := weeklog.NewWriter(t.TempDir(), weeklog.NamingLegacy)
	require.NoError(t, os.WriteFile(files.Path(testutil.Day(0, 0, 0)), []byte(sampleWeek), 0644))
	return NewReportService(files, registry), files
}

func TestReport_TotalsPerCategory(t *testing.T) {
	svc, _ := newReportFixture(t)
	now := testutil.Day(2, 12, 0)

	rep, err := svc.Report(context.Background(), app.ReportRequest{Now: &now})
	require.NoError(t, err)

	require.Len(t, rep.Categories, 3)
	assert.Equal(t, app.CategoryTotal{Key: "a", Name: "Work", Color: "#ff0000", Minutes: 165, Hours: 2.75}, rep.Categories[0])
	assert.Equal(t, "Break", rep.Categories[1].Name)
	assert.Equal(t, 15, rep.Categories[1].Minutes)
	assert.Equal(t, 0.25, rep.Categories[1].Hours)
	assert.Equal(t, "x", rep.Categories[2].Name, "keys missing from the legend are still counted")
	assert.Equal(t, 30, rep.Categories[2].Minutes)

	assert.Equal(t, 210, rep.TotalMinutes)
	assert.Equal(t, 3.5, rep.TotalHours)
	require.Len(t, rep.Skipped, 1)
	assert.Contains(t, rep.Skipped[0], "line 7")
}

func TestReport_PerDayBreakdown(t *testing.T) {
	svc, files := newReportFixture(t)
	week := testutil.Day(0, 0, 0)

	rep, err := svc.Report(context.Background(), app.ReportRequest{Week: &week})
	require.NoError(t, err)
	assert.Equal(t, files.Path(week), rep.File)

	require.Len(t, rep.Days, 2)
	assert.Equal(t, "2025-03-10", rep.Days[0].Date)
	assert.Equal(t, 120, rep.Days[0].Minutes)
	assert.Equal(t, map[string]int{"a": 105, "b": 15}, rep.Days[0].ByCategory)
	assert.Equal(t, "2025-03-11", rep.Days[1].Date)
	assert.Equal(t, 90, rep.Days[1].Minutes)
}

func TestReport_DayFilter(t *testing.T) {
	svc, files := newReportFixture(t)

	rep, err := svc.Report(context.Background(), app.ReportRequest{File: files.Path(testutil.Day(0, 0, 0)), Day: 11})
	require.NoError(t, err)

	assert.Equal(t, 90, rep.TotalMinutes)
	assert.Equal(t, 60, rep.Categories[0].Minutes)
	assert.Equal(t, 0, rep.Categories[1].Minutes)
	require.Len(t, rep.Days, 1)
}

func TestReport_MissingFile(t *testing.T) {
	svc, _ := newReportFixture(t)

	_, err := svc.Report(context.Background(), app.ReportRequest{File: filepath.Join(t.TempDir(), "nope.txt")})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReport_WeekFileResolution(t *testing.T) {
	svc, files := newReportFixture(t)
	ctx := context.Background()
	wednesday := testutil.Day(2, 15, 0)

	path, err := svc.WeekFile(ctx, app.ReportRequest{Now: &wednesday})
	require.NoError(t, err)
	assert.Equal(t, "week_of_March_10.txt", filepath.Base(path))

	path, err = svc.WeekFile(ctx, app.ReportRequest{File: "explicit.txt", Now: &wednesday})
	require.NoError(t, err)
	assert.Equal(t, "explicit.txt", path)

	nextWeek := testutil.Day(7, 0, 0)
	path, err = svc.WeekFile(ctx, app.ReportRequest{Week: &nextWeek, Now: &wednesday})
	require.NoError(t, err)
	assert.Equal(t, files.Path(nextWeek), path)

	_, err = svc.WeekFile(ctx, app.ReportRequest{Day: 32})
	assert.Error(t, err)
}
