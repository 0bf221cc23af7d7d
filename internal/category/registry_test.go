package category

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	reg, err := Parse(strings.NewReader("A:Work:255,0,0\n\nb:Break:0,255,0\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	c, ok := reg.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, domain.Category{Key: "a", Name: "Work", Color: domain.RGB{R: 255}}, c)

	c, ok = reg.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, "Break", c.Name)

	_, ok = reg.Lookup("z")
	assert.False(t, ok)
}

func TestParse_DuplicateLastWriteWins(t *testing.T) {
	reg, err := Parse(strings.NewReader("a:Work:1,2,3\nb:Break:0,0,0\nA:Deep Work:4,5,6\n"))
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Key, "keeps first position")
	assert.Equal(t, "Deep Work", list[0].Name)
	assert.Equal(t, domain.RGB{R: 4, G: 5, B: 6}, list[0].Color)
	assert.Equal(t, "b", list[1].Key)
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"missing color":   "a:Work\n",
		"bad channel":     "a:Work:256,0,0\n",
		"two channels":    "a:Work:1,2\n",
		"digit key":       "1:Work:1,2,3\n",
		"multi char key":  "ab:Work:1,2,3\n",
		"empty name":      "a::1,2,3\n",
		"non numeric rgb": "a:Work:red,0,0\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader("b:Break:0,0,0\n" + input))
			var cfgErr *domain.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, 2, cfgErr.Line)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legend")
	require.NoError(t, os.WriteFile(path, []byte("a:Work:255,0,0\n"), 0644))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
}

func TestLoad_MissingFileIsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "legend"))
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legend")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0644))

	_, err := Load(path)
	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
