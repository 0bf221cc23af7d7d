// Package category loads the legend file mapping single-character keys to
// activity names and display colors.
package category

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/punchclock/internal/domain"
)

// Registry is the read-only set of categories loaded at startup.
type Registry struct {
	order []string
	byKey map[string]domain.Category
}

// Load reads the legend file at path. A missing or malformed file is a
// *domain.ConfigError.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	reg, err := parse(f, path)
	if err != nil {
		return nil, err
	}
	if len(reg.order) == 0 {
		return nil, &domain.ConfigError{Path: path, Err: errors.New("no categories defined")}
	}
	return reg, nil
}

// Parse reads `KEY:DisplayName:R,G,B` lines. Blank lines are skipped, keys
// are lowercased and a repeated key overwrites the earlier definition while
// keeping its position.
func Parse(r io.Reader) (*Registry, error) {
	return parse(r, "legend")
}

func parse(r io.Reader, path string) (*Registry, error) {
	reg := &Registry{byKey: make(map[string]domain.Category)}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cat, err := parseLine(line)
		if err != nil {
			return nil, &domain.ConfigError{Path: path, Line: lineNo, Err: err}
		}
		if _, seen := reg.byKey[cat.Key]; !seen {
			reg.order = append(reg.order, cat.Key)
		}
		reg.byKey[cat.Key] = cat
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	return reg, nil
}

func parseLine(line string) (domain.Category, error) {
	parts := strings.Split(line, ":")
	if len(parts) != 3 {
		return domain.Category{}, fmt.Errorf("expected KEY:Name:R,G,B, got %q", line)
	}
	key, err := domain.NormalizeKey(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.Category{}, fmt.Errorf("key %q: %w", parts[0], err)
	}
	name := strings.TrimSpace(parts[1])
	if name == "" {
		return domain.Category{}, fmt.Errorf("category %q has no name", key)
	}
	color, err := parseColor(parts[2])
	if err != nil {
		return domain.Category{}, fmt.Errorf("category %q: %w", key, err)
	}
	return domain.Category{Key: key, Name: name, Color: color}, nil
}

func parseColor(s string) (domain.RGB, error) {
	channels := strings.Split(s, ",")
	if len(channels) != 3 {
		return domain.RGB{}, fmt.Errorf("color %q must have three channels", s)
	}
	var rgb [3]uint8
	for i, ch := range channels {
		n, err := strconv.ParseUint(strings.TrimSpace(ch), 10, 8)
		if err != nil {
			return domain.RGB{}, fmt.Errorf("color channel %q out of range 0-255", ch)
		}
		rgb[i] = uint8(n)
	}
	return domain.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// Lookup returns the category for key, case-insensitively.
func (r *Registry) Lookup(key string) (domain.Category, bool) {
	c, ok := r.byKey[strings.ToLower(key)]
	return c, ok
}

// List returns categories in file order.
func (r *Registry) List() []domain.Category {
	out := make([]domain.Category, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}

// Len returns the number of categories.
func (r *Registry) Len() int { return len(r.order) }
