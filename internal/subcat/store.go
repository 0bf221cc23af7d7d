// Package subcat persists the per-category subcategory slot labels.
//
// The file holds one line per category, `category:slot0,slot1,...`, with
// trailing empty slots omitted. Every edit rewrites the whole file.
package subcat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/punchclock/internal/domain"
)

// Store is the in-memory mapping plus the path it is saved to.
type Store struct {
	path  string
	order []string
	slots map[string][]string
}

// New returns an empty store that saves to path.
func New(path string) *Store {
	return &Store{path: path, slots: make(map[string][]string)}
}

// Load parses the subcategory file at path. A missing or malformed file
// is a *domain.ConfigError.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	s := New(path)
	if err := s.read(f); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse reads a mapping from r. The returned store saves to path.
func Parse(r io.Reader, path string) (*Store, error) {
	s := New(path)
	if err := s.read(r); err != nil {
		return nil, err
	}
	return s, nil
}

// maxLineBytes bounds one category line, well above SlotCount labels of
// MaxNoteLength runes.
const maxLineBytes = 1 << 20

func (s *Store) read(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cat, list, ok := strings.Cut(line, ":")
		if !ok {
			return &domain.ConfigError{Path: s.path, Line: lineNo, Err: fmt.Errorf("missing ':' in %q", line)}
		}
		key, err := domain.NormalizeKey(strings.TrimSpace(cat))
		if err != nil {
			return &domain.ConfigError{Path: s.path, Line: lineNo, Err: err}
		}
		labels := strings.Split(list, ",")
		if len(labels) > domain.SlotCount {
			return &domain.ConfigError{Path: s.path, Line: lineNo,
				Err: fmt.Errorf("category %q has %d slots, at most %d allowed", key, len(labels), domain.SlotCount)}
		}
		if _, seen := s.slots[key]; !seen {
			s.order = append(s.order, key)
		}
		s.slots[key] = labels
	}
	if err := sc.Err(); err != nil {
		return &domain.ConfigError{Path: s.path, Err: err}
	}
	return nil
}

// Path returns the file the store saves to.
func (s *Store) Path() string { return s.path }

// Slot returns the label at index, or "" past the end of the list.
func (s *Store) Slot(category string, index int) string {
	list := s.slots[strings.ToLower(category)]
	if index < 0 || index >= len(list) {
		return ""
	}
	return list[index]
}

// Slots returns all ten labels for category.
func (s *Store) Slots(category string) [domain.SlotCount]string {
	var out [domain.SlotCount]string
	copy(out[:], s.slots[strings.ToLower(category)])
	return out
}

// Categories returns the categories present in the mapping in file order.
func (s *Store) Categories() []string {
	return append([]string(nil), s.order...)
}

// SetSlot stores text at index, growing the list with empty labels as
// needed, and saves the whole mapping.
func (s *Store) SetSlot(category string, index int, text string) error {
	if index < 0 || index >= domain.SlotCount {
		return fmt.Errorf("slot %d: %w", index, domain.ErrInvalidDigit)
	}
	if err := domain.ValidateNote(text); err != nil {
		return err
	}
	key := strings.ToLower(category)
	list, seen := s.slots[key]
	if !seen {
		s.order = append(s.order, key)
	}
	for len(list) <= index {
		list = append(list, "")
	}
	list[index] = text
	s.slots[key] = list
	return s.Save()
}

// WriteTo serializes the mapping, one category per line, dropping empty
// trailing slots.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, key := range s.order {
		list := trimTrailing(s.slots[key])
		b.WriteString(key)
		b.WriteByte(':')
		b.WriteString(strings.Join(list, ","))
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Save replaces the file on disk with the current mapping. It writes a
// temporary file in the same directory and renames it into place.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp subcategory file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := s.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing subcategories: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing subcategories: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing subcategories: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	committed = true
	return nil
}

func trimTrailing(list []string) []string {
	end := len(list)
	for end > 0 && list[end-1] == "" {
		end--
	}
	return list[:end]
}
