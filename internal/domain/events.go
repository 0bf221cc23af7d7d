package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Event is a discrete input delivered by the presentation layer.
type Event interface {
	Name() string
}

// CategorySelected is a category key press.
type CategorySelected struct {
	Key string
}

// SubcategorySelected is a digit key press.
type SubcategorySelected struct {
	Digit int
}

// NoteEdited carries the text the user typed for the selected slot.
type NoteEdited struct {
	Text string
}

// Shutdown is the terminal event.
type Shutdown struct{}

func (CategorySelected) Name() string    { return "category_selected" }
func (SubcategorySelected) Name() string { return "subcategory_selected" }
func (NoteEdited) Name() string          { return "note_edited" }
func (Shutdown) Name() string            { return "shutdown" }

// SlotForDigit maps a pressed digit to its slot: '1' is slot 0, '0' is slot 9.
func SlotForDigit(digit int) int {
	return (digit + 9) % 10
}

// DigitForSlot is the inverse of SlotForDigit.
func DigitForSlot(index int) int {
	return (index + 1) % 10
}

// NormalizeKey lowercases a category key and checks it is one usable rune.
func NormalizeKey(key string) (string, error) {
	if utf8.RuneCountInString(key) != 1 {
		return "", ErrInvalidKey
	}
	r, _ := utf8.DecodeRuneInString(key)
	if unicode.IsDigit(r) || unicode.IsSpace(r) || !unicode.IsPrint(r) {
		return "", ErrInvalidKey
	}
	return strings.ToLower(key), nil
}

// MaxNoteLength caps notes and slot labels in runes. Both end up as one
// line of a file read back with a line scanner.
const MaxNoteLength = 200

// ValidateNote checks that text can be stored as a note or slot label.
func ValidateNote(text string) error {
	if strings.ContainsAny(text, ",\r\n") {
		return ErrInvalidNote
	}
	if utf8.RuneCountInString(text) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// IgnoreReason explains why an event had no effect.
type IgnoreReason string

const (
	IgnoreUnknownCategory IgnoreReason = "unknown category"
	IgnoreNoSession       IgnoreReason = "no active session"
	IgnoreNoSubcategory   IgnoreReason = "no subcategory selected"
)

// Env is the read-only context a transition is computed against.
type Env struct {
	Now      time.Time
	Category func(key string) (Category, bool)
	Slot     func(category string, index int) string
}

// SlotWrite asks the caller to persist a subcategory label.
type SlotWrite struct {
	Category string
	Index    int
	Text     string
}

// Transition is the result of applying one event to the current session.
// Next is nil when the tracker ends up idle.
type Transition struct {
	Next      *Session
	Entries   []LogEntry
	SlotWrite *SlotWrite
	Ignored   IgnoreReason
}

// Apply computes the next state for ev. It has no side effects; the caller
// persists Entries and SlotWrite before adopting Next.
func Apply(cur *Session, ev Event, env Env) (Transition, error) {
	switch ev := ev.(type) {
	case CategorySelected:
		key, err := NormalizeKey(ev.Key)
		if err != nil {
			return unchanged(cur, IgnoreUnknownCategory), nil
		}
		if _, ok := env.Category(key); !ok {
			return unchanged(cur, IgnoreUnknownCategory), nil
		}
		next := NewSession(key, env.Now)
		return Transition{Next: &next, Entries: finalize(cur, env.Now)}, nil

	case SubcategorySelected:
		if ev.Digit < 0 || ev.Digit > 9 {
			return unchanged(cur, ""), ErrInvalidDigit
		}
		if cur == nil {
			return unchanged(cur, IgnoreNoSession), nil
		}
		index := SlotForDigit(ev.Digit)
		next := cur.WithSubcategory(index, env.Slot(cur.Category, index))
		return Transition{Next: &next}, nil

	case NoteEdited:
		if cur == nil {
			return unchanged(cur, IgnoreNoSession), nil
		}
		if !cur.HasSubcategory() {
			return unchanged(cur, IgnoreNoSubcategory), nil
		}
		if err := ValidateNote(ev.Text); err != nil {
			return unchanged(cur, ""), err
		}
		note := strings.ToLower(ev.Text)
		next := cur.WithNote(note)
		return Transition{
			Next:      &next,
			SlotWrite: &SlotWrite{Category: cur.Category, Index: cur.SubcatIndex, Text: note},
		}, nil

	case Shutdown:
		return Transition{Entries: finalize(cur, env.Now)}, nil
	}
	return unchanged(cur, ""), nil
}

func finalize(cur *Session, end time.Time) []LogEntry {
	if cur == nil {
		return nil
	}
	return cur.Finalize(end)
}

func unchanged(cur *Session, reason IgnoreReason) Transition {
	return Transition{Next: cur, Ignored: reason}
}
