package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/google/uuid"
)

// Legend is the two-category legend used across tests.
const Legend = "a:Work:255,0,0\nb:Break:0,255,0\n"

// Day returns a local time on 2025-03-10 (a Monday), or later days via
// the day offset.
func Day(offset, hour, min int) time.Time {
	return time.Date(2025, 3, 10+offset, hour, min, 0, 0, time.Local)
}

// EntryOption customizes NewTestEntry.
type EntryOption func(*domain.LogEntry)

func WithNote(note string) EntryOption {
	return func(e *domain.LogEntry) {
		e.Note = note
	}
}

func WithSpan(start, end time.Time) EntryOption {
	return func(e *domain.LogEntry) {
		e.Start = start
		e.End = end
	}
}

// NewTestEntry returns a one-hour entry for category on the first test day.
func NewTestEntry(category string, opts ...EntryOption) domain.LogEntry {
	e := domain.LogEntry{Category: category, Start: Day(0, 9, 0), End: Day(0, 10, 0)}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// NewTestPending wraps an entry as a queued outbox row.
func NewTestPending(e domain.LogEntry) *domain.PendingEntry {
	return &domain.PendingEntry{ID: uuid.New().String(), Entry: e, QueuedAt: e.End}
}

// DataDir writes a legend and subcategory file into a temp dir and returns
// the directory.
func DataDir(t *testing.T, legend, subcats string) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	write("legend", legend)
	write("subcategories", subcats)
	return dir
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
