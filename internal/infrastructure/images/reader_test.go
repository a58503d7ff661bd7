package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o600))
	}
}

func TestReader_ReturnsPlaceholderPerImage(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "slide10.png", "slide2.JPG", "slide1.jpeg", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "thumbs.png"), 0o755))

	deck, err := NewReader(nil).Read(t.Context(), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, deck.Source)
	require.Len(t, deck.Slides, 3)
	for i, s := range deck.Slides {
		assert.Equal(t, i+1, s.Number)
		assert.True(t, s.Placeholder)
		assert.Empty(t, s.Text)
	}
	assert.Empty(t, deck.Skipped)
}

func TestReader_InvalidDirectories(t *testing.T) {
	empty := t.TempDir()

	noImages := t.TempDir()
	touch(t, noImages, "readme.md")

	file := filepath.Join(t.TempDir(), "slide.png")
	require.NoError(t, os.WriteFile(file, []byte("img"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(empty, "nope")},
		{name: "empty", path: empty},
		{name: "no images", path: noImages},
		{name: "file instead of directory", path: file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(nil).Read(t.Context(), tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, entities.ErrInput)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"slide2.png", "slide10.png", true},
		{"slide10.png", "slide2.png", false},
		{"Slide1.png", "slide2.png", true},
		{"a.png", "b.png", true},
		{"slide1.png", "slide1.png", false},
		{"slide", "slide1", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, naturalLess(tt.a, tt.b))
		})
	}
}
