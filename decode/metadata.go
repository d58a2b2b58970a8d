package decode

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Title returns the embedded title tag of an audio file, falling back
// to the bare file name when the file has no usable tags.
func Title(path string) string {
	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	f, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()
	m, err := tag.ReadFrom(f)
	if err != nil || m.Title() == "" {
		return fallback
	}
	return m.Title()
}

// Artist returns the embedded artist tag, or "" when absent.
func Artist(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	m, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	return m.Artist()
}
