package pipeline

import (
	"context"
	"image"
	"math"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/fonts"
	"github.com/matzehuels/xyplot/pkg/sweep"
)

// ImageSource produces the image of one sweep iteration.
type ImageSource interface {
	Image(ctx context.Context, rec sweep.Record) (image.Image, error)
}

// =============================================================================
// Swatches
// =============================================================================

// goldenAngle spreads consecutive hues around the colour wheel.
const goldenAngle = 137.50776405

// SwatchSource draws a coloured tile labelled with the iteration's values.
// It stands in for a real image generator when previewing a sweep layout.
type SwatchSource struct {
	Width, Height int
}

// NewSwatchSource returns a swatch source of the given cell size. Sizes
// below 1 fall back to DefaultCellSize.
func NewSwatchSource(width, height int) *SwatchSource {
	if width < 1 {
		width = DefaultCellSize
	}
	if height < 1 {
		height = DefaultCellSize
	}
	return &SwatchSource{Width: width, Height: height}
}

// Image draws the swatch for rec.
func (s *SwatchSource) Image(ctx context.Context, rec sweep.Record) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bg := SwatchColor(rec.Index)

	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(bg)
	dc.Clear()

	size := math.Max(8, float64(min(s.Width, s.Height))/10)
	face, err := fonts.Face(fonts.Mono, size)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	_, _, l := bg.Hcl()
	if l > 0.6 {
		dc.SetRGB(0, 0, 0)
	} else {
		dc.SetRGB(1, 1, 1)
	}
	w, h := float64(s.Width), float64(s.Height)
	dc.DrawStringAnchored(rec.Dim1.Value.String(), w/2, h/2-size*0.6, 0.5, 0.5)
	dc.DrawStringAnchored(rec.Dim2.Value.String(), w/2, h/2+size*0.6, 0.5, 0.5)
	return dc.Image(), nil
}

// SwatchColor returns the tile colour of a global sweep index.
func SwatchColor(index int) colorful.Color {
	hue := math.Mod(float64(index)*goldenAngle, 360)
	return colorful.Hsv(hue, 0.55, 0.85).Clamped()
}

// =============================================================================
// Files
// =============================================================================

// FileSource serves images from disk, one file per iteration in sorted
// path order.
type FileSource struct {
	Paths []string
}

// NewFileSource expands a glob pattern into a file source.
func NewFileSource(pattern string) (*FileSource, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "invalid pattern %q", pattern)
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no images match %q", pattern)
	}
	sort.Strings(paths)
	return &FileSource{Paths: paths}, nil
}

// Image opens the file for rec.Index.
func (s *FileSource) Image(ctx context.Context, rec sweep.Record) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rec.Index < 0 || rec.Index >= len(s.Paths) {
		return nil, errors.New(errors.ErrCodeIndexOutOfRange,
			"no image for index %d: only %d files", rec.Index, len(s.Paths))
	}
	img, err := imaging.Open(s.Paths[rec.Index])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", s.Paths[rec.Index])
	}
	return img, nil
}
