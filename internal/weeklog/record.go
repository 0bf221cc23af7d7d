package weeklog

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// Record is one parsed log line. Times are minute precision on Date.
type Record struct {
	Category string
	Date     time.Time
	Start    time.Time
	End      time.Time
	Note     string
}

// Minutes returns the record's length in whole minutes.
func (r Record) Minutes() int {
	return int(r.End.Sub(r.Start) / time.Minute)
}

// ParseError reports a malformed line in a week file.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseRecord parses one record line in the local time zone.
func ParseRecord(line string) (Record, error) {
	body, note, _ := strings.Cut(strings.TrimRight(line, "\r\n"), noteSep)
	fields := strings.Fields(body)
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("expected 3 fields before the note, got %d", len(fields))
	}

	date, err := time.ParseInLocation(dateLayout, fields[1], time.Local)
	if err != nil {
		return Record{}, fmt.Errorf("parsing date: %w", err)
	}
	from, to, ok := strings.Cut(fields[2], "-")
	if !ok {
		return Record{}, fmt.Errorf("time range %q has no '-'", fields[2])
	}
	start, err := clockOn(date, from)
	if err != nil {
		return Record{}, fmt.Errorf("parsing start: %w", err)
	}
	end, err := clockOn(date, to)
	if err != nil {
		return Record{}, fmt.Errorf("parsing end: %w", err)
	}
	if end.Before(start) {
		return Record{}, fmt.Errorf("end %s before start %s", to, from)
	}

	return Record{
		Category: strings.ToLower(fields[0]),
		Date:     date,
		Start:    start,
		End:      end,
		Note:     strings.TrimSpace(note),
	}, nil
}

func clockOn(date time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// ReadFile parses every non-blank line of a week file. Malformed lines are
// returned as *ParseError values alongside the records that did parse.
func ReadFile(path string) ([]Record, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening week file: %w", err)
	}
	defer f.Close()

	var records []Record
	var bad []error
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := ParseRecord(text)
		if err != nil {
			bad = append(bad, &ParseError{Line: lineNo, Text: text, Err: err})
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, bad, nil
}
