package domain

import "time"

// SlotCount is the number of subcategory slots per category.
const SlotCount = 10

// NoSubcategory marks a session without a selected subcategory slot.
const NoSubcategory = -1

// Session is the open, not yet finalized interval. It is a value: every
// transition produces a new Session rather than mutating the current one.
type Session struct {
	Category    string
	StartedAt   time.Time
	SubcatIndex int
	Note        string
}

// NewSession opens a session for category at start with no subcategory.
func NewSession(category string, start time.Time) Session {
	return Session{Category: category, StartedAt: start, SubcatIndex: NoSubcategory}
}

// HasSubcategory reports whether a subcategory slot is selected.
func (s Session) HasSubcategory() bool {
	return s.SubcatIndex >= 0 && s.SubcatIndex < SlotCount
}

// WithSubcategory returns a copy with the slot index and note replaced.
func (s Session) WithSubcategory(index int, note string) Session {
	s.SubcatIndex = index
	s.Note = note
	return s
}

// WithNote returns a copy with the note replaced.
func (s Session) WithNote(note string) Session {
	s.Note = note
	return s
}

// Finalize closes the session at end and returns the entries to persist.
// An interval crossing local midnight is split at the day boundary. Records
// carry minutes, so a piece whose start and end fall in the same minute is
// dropped. An end before the start yields nothing.
func (s Session) Finalize(end time.Time) []LogEntry {
	if !end.After(s.StartedAt) {
		return nil
	}
	pieces := []LogEntry{{Category: s.Category, Start: s.StartedAt, End: end, Note: s.Note}}
	if !SameDay(s.StartedAt, end) {
		pieces = []LogEntry{
			{Category: s.Category, Start: s.StartedAt, End: EndOfDay(s.StartedAt), Note: s.Note},
			{Category: s.Category, Start: StartOfDay(end), End: end, Note: s.Note},
		}
	}

	entries := pieces[:0]
	for _, e := range pieces {
		if !e.Empty() {
			entries = append(entries, e)
		}
	}
	return entries
}

// LogEntry is one closed interval. Its date is the calendar date of End.
type LogEntry struct {
	Category string
	Start    time.Time
	End      time.Time
	Note     string
}

// Date returns local midnight of the entry's end day.
func (e LogEntry) Date() time.Time {
	return StartOfDay(e.End)
}

// Empty reports whether the entry would render with equal start and end
// clock times.
func (e LogEntry) Empty() bool {
	return !e.End.Truncate(time.Minute).After(e.Start.Truncate(time.Minute))
}

// Duration returns End - Start.
func (e LogEntry) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// StartOfDay returns midnight at the start of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, t.Location())
}
