package grid

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font"

	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/fonts"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func blankMatrix(rows, cols, w, h int) [][]image.Image {
	m := make([][]image.Image, rows)
	for r := range m {
		m[r] = make([]image.Image, cols)
		for c := range m[r] {
			m[r][c] = solid(w, h, color.White)
		}
	}
	return m
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestBuildSizeWithoutLabels(t *testing.T) {
	tests := []struct {
		rows, cols, w, h, gap int
	}{
		{1, 1, 16, 9, 20},
		{2, 3, 10, 8, 20},
		{3, 2, 7, 5, 0},
		{4, 4, 1, 1, 3},
	}
	for _, tt := range tests {
		style := DefaultStyle()
		style.Gap = tt.gap
		img, err := Build(blankMatrix(tt.rows, tt.cols, tt.w, tt.h),
			make([]string, tt.cols), make([]string, tt.rows), PageVars{1, 1}, style, nil, nil)
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		want := image.Pt(tt.cols*tt.w+(tt.cols-1)*tt.gap, tt.rows*tt.h+(tt.rows-1)*tt.gap)
		if got := img.Bounds().Size(); got != want {
			t.Errorf("Build(%dx%d of %dx%d, gap %d) size = %v, want %v",
				tt.rows, tt.cols, tt.w, tt.h, tt.gap, got, want)
		}
	}
}

func TestBuildSizeWithLabels(t *testing.T) {
	style := DefaultStyle()
	rowHeaders := []string{"20 steps", `a much longer\nlabel`}
	colHeaders := []string{"euler", "ddim", "dpm"}

	img, err := Build(blankMatrix(2, 3, 64, 48), colHeaders, rowHeaders, PageVars{1, 1}, style, nil, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	face, err := fonts.Face(style.Font, float64(style.FontSize))
	if err != nil {
		t.Fatal(err)
	}
	var widest int
	for _, line := range []string{"20 steps", "a much longer", "label"} {
		w := int(math.Ceil(float64(font.MeasureString(face, line)) / 64))
		widest = max(widest, w)
	}

	top := 1*style.FontSize + 2*style.PadColHeaders
	left := widest + 2*style.PadRowHeaders
	want := image.Pt(3*64+2*style.Gap+left, 2*48+style.Gap+top)
	if got := img.Bounds().Size(); got != want {
		t.Errorf("Build() size = %v, want %v", got, want)
	}

	l, err := Plan(blankMatrix(2, 3, 64, 48), colHeaders, rowHeaders, PageVars{1, 1}, style, nil, nil)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if l.TopMargin != top || l.LeftMargin != left {
		t.Errorf("Plan() margins = (%d,%d), want (%d,%d)", l.TopMargin, l.LeftMargin, top, left)
	}
	if image.Pt(l.Width, l.Height) != want {
		t.Errorf("Plan() size = (%d,%d), want %v", l.Width, l.Height, want)
	}
}

func TestBuildMultilineColumnLabelsGrowTopMargin(t *testing.T) {
	style := DefaultStyle()
	l, err := Plan(blankMatrix(1, 2, 10, 10), []string{"one", `two\nlines`}, nil, PageVars{}, style, nil, nil)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if want := 2*style.FontSize + 2*style.PadColHeaders; l.TopMargin != want {
		t.Errorf("TopMargin = %d, want %d", l.TopMargin, want)
	}
	if l.LeftMargin != 0 {
		t.Errorf("LeftMargin = %d, want 0", l.LeftMargin)
	}
}

func TestBuildHeaderFooterBands(t *testing.T) {
	style := DefaultStyle()
	style.BackgroundColor = "#ff0000"

	header := DefaultHeaderFooterStyle()
	header.TextCenter = "Page {current_page} of {total_pages}"
	footer := DefaultHeaderFooterStyle()
	footer.TextLeft = `left\nsecond line`
	footer.BackgroundColor = "#0000ff"

	img, err := Build(blankMatrix(1, 1, 100, 50), nil, nil, PageVars{2, 3}, style, &header, &footer)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	headerH := header.FontSize + 2*header.Padding
	footerH := 2*footer.FontSize + 2*footer.Padding
	if got, want := img.Bounds().Size(), image.Pt(100, 50+headerH+footerH); got != want {
		t.Errorf("Build() size = %v, want %v", got, want)
	}

	// transparent header band inherits the grid background
	if got := nrgbaAt(img, 1, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("header band pixel = %v, want grid background", got)
	}
	if got := nrgbaAt(img, 99, img.Bounds().Dy()-1); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("footer band pixel = %v, want footer background", got)
	}
}

func TestBuildEmptyBandIsSkipped(t *testing.T) {
	header := DefaultHeaderFooterStyle()
	img, err := Build(blankMatrix(1, 1, 30, 30), nil, nil, PageVars{1, 1}, DefaultStyle(), &header, &header)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(30, 30) {
		t.Errorf("Build() size = %v, want 30x30", got)
	}
}

func TestBuildUnknownVariableIsInline(t *testing.T) {
	header := DefaultHeaderFooterStyle()
	header.TextLeft = "Page {page}"
	header.TextRight = "{total_pages} total"

	p, err := prepare(blankMatrix(1, 1, 10, 10), nil, nil, PageVars{1, 4}, DefaultStyle(), &header, nil)
	if err != nil {
		t.Fatalf("prepare() error: %v", err)
	}
	want := [3]string{"Error: unknown variable 'page'", "", "4 total"}
	if diff := cmp.Diff(want, p.headerTexts); diff != "" {
		t.Errorf("header texts mismatch (-want +got):\n%s", diff)
	}

	if _, err := Build(blankMatrix(1, 1, 10, 10), nil, nil, PageVars{1, 4}, DefaultStyle(), &header, nil); err != nil {
		t.Errorf("Build() error: %v", err)
	}
}

func TestBuildCentersSmallerImages(t *testing.T) {
	style := DefaultStyle()
	style.Gap = 0
	style.BackgroundColor = "#000000"
	green := color.NRGBA{0, 255, 0, 255}

	m := [][]image.Image{{solid(10, 10, color.White), solid(4, 4, green)}}
	img, err := Build(m, nil, nil, PageVars{}, style, nil, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := nrgbaAt(img, 13, 3); got != green {
		t.Errorf("pixel (13,3) = %v, want small image", got)
	}
	if got := nrgbaAt(img, 10, 0); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("pixel (10,0) = %v, want background", got)
	}
}

func TestBuildTransparentBackground(t *testing.T) {
	style := DefaultStyle()
	style.BackgroundColor = Transparent
	img, err := Build(blankMatrix(1, 2, 5, 5), nil, nil, PageVars{}, style, nil, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := nrgbaAt(img, 7, 2); got.A != 0 {
		t.Errorf("gap pixel alpha = %d, want 0", got.A)
	}
	if got := nrgbaAt(img, 2, 2); got.A != 255 {
		t.Errorf("cell pixel alpha = %d, want 255", got.A)
	}
}

func TestBuildErrors(t *testing.T) {
	badFont := DefaultStyle()
	badFont.Font = "/nonexistent/xyplot/font.ttf"
	badColor := DefaultStyle()
	badColor.FontColor = "not-a-color"
	badHeader := DefaultHeaderFooterStyle()
	badHeader.TextLeft = "x"
	badHeader.Font = "/nonexistent/xyplot/bold.ttf"

	tests := []struct {
		name   string
		matrix [][]image.Image
		style  Style
		header *HeaderFooterStyle
		code   errors.Code
	}{
		{"empty matrix", nil, DefaultStyle(), nil, errors.ErrCodeInvalidInput},
		{"nil cell", [][]image.Image{{nil}}, DefaultStyle(), nil, errors.ErrCodeInvalidInput},
		{"ragged", [][]image.Image{{solid(1, 1, color.White)}, {}}, DefaultStyle(), nil, errors.ErrCodeInvalidInput},
		{"grid font", blankMatrix(1, 1, 1, 1), badFont, nil, errors.ErrCodeFontNotFound},
		{"header font", blankMatrix(1, 1, 1, 1), DefaultStyle(), &badHeader, errors.ErrCodeFontNotFound},
		{"color", blankMatrix(1, 1, 1, 1), badColor, nil, errors.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.matrix, nil, nil, PageVars{}, tt.style, tt.header, nil)
			if !errors.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildFontErrorNamesPath(t *testing.T) {
	style := DefaultStyle()
	style.Font = "/nonexistent/xyplot/font.ttf"
	_, err := Build(blankMatrix(1, 1, 1, 1), nil, nil, PageVars{}, style, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "TTF font not found: '/nonexistent/xyplot/font.ttf'") {
		t.Errorf("Build() error = %v, want path in message", err)
	}
}
