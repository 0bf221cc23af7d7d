package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDigit = errors.New("subcategory digit must be between 0 and 9")
	ErrInvalidNote  = errors.New("note must not contain commas or line breaks")
	ErrInvalidKey   = errors.New("category key must be a single non-digit character")
	ErrNoteTooLong  = fmt.Errorf("note must be at most %d characters", MaxNoteLength)
)

// ConfigError reports a missing or malformed legend or subcategory file.
// It is fatal at startup.
type ConfigError struct {
	Path string
	Line int // 0 when the error is not tied to a line
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
