package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderShareBar(t *testing.T) {
	tests := []struct {
		name       string
		share      float64
		width      int
		wantFilled int
		wantTotal  int
	}{
		{"empty", 0, 10, 0, 10},
		{"half", 0.5, 10, 5, 10},
		{"full", 1, 10, 10, 10},
		{"over clamps", 1.5, 10, 10, 10},
		{"negative clamps", -0.5, 10, 0, 10},
		{"rounds", 0.26, 10, 3, 10},
		{"tiny width clamps to 2", 0.5, 1, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderShareBar(tt.share, tt.width, StyleGreen))
			assert.Equal(t, tt.wantFilled, strings.Count(got, filledBlock))
			assert.Equal(t, tt.wantTotal, strings.Count(got, filledBlock)+strings.Count(got, emptyBlock))
		})
	}
}
