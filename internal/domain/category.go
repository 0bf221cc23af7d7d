package domain

import "fmt"

// RGB is a category display color with 0-255 channels.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Category is a top-level activity type keyed by a single lowercase character.
type Category struct {
	Key   string
	Name  string
	Color RGB
}
