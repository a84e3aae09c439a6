// Package fonts resolves font names to TrueType faces.
//
// The Go font family is embedded in the binary, so the default grid and
// header fonts work without any files on disk. Other fonts are given either
// as an absolute path to a .ttf file or as a bare file name, which is looked
// up in the system font directories.
//
// Parsed fonts are cached for the lifetime of the process; faces are cheap
// to derive from a parsed font and are created per call.
package fonts

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/xyplot/pkg/errors"
)

// Bundled font names.
const (
	Regular    = "Go-Regular.ttf"
	Bold       = "Go-Bold.ttf"
	Italic     = "Go-Italic.ttf"
	BoldItalic = "Go-BoldItalic.ttf"
	Mono       = "Go-Mono.ttf"
)

var bundled = map[string][]byte{
	Regular:    goregular.TTF,
	Bold:       gobold.TTF,
	Italic:     goitalic.TTF,
	BoldItalic: gobolditalic.TTF,
	Mono:       gomono.TTF,
}

// Bundled returns the names of the embedded fonts, sorted.
func Bundled() []string {
	names := make([]string, 0, len(bundled))
	for name := range bundled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBundled reports whether name refers to an embedded font.
func IsBundled(name string) bool {
	_, ok := bundled[name]
	return ok
}

var (
	parsedMu sync.Mutex
	parsed   = make(map[string]*truetype.Font)
)

// Load returns the parsed font for name. Failures carry the
// FONT_NOT_FOUND code and name the path that was tried.
func Load(name string) (*truetype.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()

	if f, ok := parsed[name]; ok {
		return f, nil
	}

	data, path, err := read(name)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "TTF font not readable: '%s'", path)
	}
	parsed[name] = f
	return f, nil
}

// Face returns a face of the named font whose em size is size pixels.
func Face(name string, size float64) (font.Face, error) {
	f, err := Load(name)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func read(name string) ([]byte, string, error) {
	if data, ok := bundled[name]; ok {
		return data, name, nil
	}

	path := name
	if !filepath.IsAbs(name) {
		found, err := findfont.Find(name)
		if err != nil {
			return nil, name, errors.Wrap(errors.ErrCodeFontNotFound, err, "TTF font not found: '%s'", name)
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, errors.Wrap(errors.ErrCodeFontNotFound, err, "TTF font not found: '%s'", path)
	}
	return data, path, nil
}
