// Package weeklog appends finalized intervals to per-week text files and
// reads them back.
//
// A record is one line: `<key> <YYYY/MM/DD> <HH:MM>-<HH:MM>[ # <note>]`,
// where the date is the calendar date of the interval's end.
package weeklog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
)

const (
	dateLayout = "2006/01/02"
	timeLayout = "15:04"
	noteSep    = " # "
)

// Naming selects the week file naming scheme.
type Naming int

const (
	// NamingLegacy is week_of_<Month>_<Day>.txt. Names repeat every year.
	NamingLegacy Naming = iota
	// NamingWithYear is week_of_<Year>_<Month>_<Day>.txt.
	NamingWithYear
)

// Writer appends records to week files under a directory.
type Writer struct {
	dir    string
	naming Naming
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string, naming Naming) *Writer {
	return &Writer{dir: dir, naming: naming}
}

// Dir returns the directory holding the week files.
func (w *Writer) Dir() string { return w.dir }

// WeekStart returns local midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return domain.StartOfDay(t).AddDate(0, 0, -offset)
}

// FileName returns the week file name for the week containing date.
func (w *Writer) FileName(date time.Time) string {
	monday := WeekStart(date)
	if w.naming == NamingWithYear {
		return fmt.Sprintf("week_of_%d_%s_%d.txt", monday.Year(), monday.Month(), monday.Day())
	}
	return fmt.Sprintf("week_of_%s_%d.txt", monday.Month(), monday.Day())
}

// Path returns the full path of the week file for date.
func (w *Writer) Path(date time.Time) string {
	return filepath.Join(w.dir, w.FileName(date))
}

// Append writes e to the file of the week containing its date. Each call
// opens, writes, syncs and closes the file.
func (w *Writer) Append(e domain.LogEntry) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	path := w.Path(e.Date())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening week file: %w", err)
	}
	if _, err := f.WriteString(FormatRecord(e) + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// EndsWith reports whether the last record in e's week file is e. A
// missing file holds no records.
func (w *Writer) EndsWith(e domain.LogEntry) (bool, error) {
	data, err := os.ReadFile(w.Path(e.Date()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading week file: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")
	last := content[strings.LastIndexByte(content, '\n')+1:]
	return last == FormatRecord(e), nil
}

// FormatRecord renders e as one log line without the trailing newline.
func FormatRecord(e domain.LogEntry) string {
	var b strings.Builder
	b.WriteString(e.Category)
	b.WriteByte(' ')
	b.WriteString(e.End.Format(dateLayout))
	b.WriteByte(' ')
	b.WriteString(e.Start.Format(timeLayout))
	b.WriteByte('-')
	b.WriteString(e.End.Format(timeLayout))
	if e.Note != "" {
		b.WriteString(noteSep)
		b.WriteString(e.Note)
	}
	return b.String()
}
