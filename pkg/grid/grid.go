// Package grid composes a matrix of images into one labelled page image.
//
// Cells are laid out on a uniform grid sized by the largest image; smaller
// images are centred in their cell and never resized. Column labels are
// drawn above the grid, row labels to its left, and optional page header
// and footer bands span the full width above and below.
//
// All drawing goes through [Build]; [Plan] computes the same geometry
// without rendering anything.
package grid

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/fonts"
	"github.com/matzehuels/xyplot/pkg/template"
)

// Layout is the geometry of a page image.
type Layout struct {
	Rows, Cols   int
	CellW, CellH int
	GridW, GridH int // cell grid only

	TopMargin  int // column labels
	LeftMargin int // row labels

	HeaderHeight int
	FooterHeight int

	Width, Height int // whole image
}

// CellOrigin returns the top-left corner of cell (row, col) in the image.
func (l Layout) CellOrigin(row, col, gap int) image.Point {
	return image.Point{
		X: l.LeftMargin + col*(l.CellW+gap),
		Y: l.HeaderHeight + l.TopMargin + row*(l.CellH+gap),
	}
}

// page is the validated, normalized input of one build.
type page struct {
	matrix     [][]image.Image
	colHeaders []string
	rowHeaders []string
	style      Style
	header     *HeaderFooterStyle
	footer     *HeaderFooterStyle
	vars       PageVars

	face        font.Face
	headerFace  font.Face
	footerFace  font.Face
	headerTexts [3]string
	footerTexts [3]string
}

// Plan validates the input and computes the layout Build would produce.
func Plan(matrix [][]image.Image, colHeaders, rowHeaders []string, vars PageVars,
	style Style, header, footer *HeaderFooterStyle) (Layout, error) {
	p, err := prepare(matrix, colHeaders, rowHeaders, vars, style, header, footer)
	if err != nil {
		return Layout{}, err
	}
	return p.layout(), nil
}

// Build renders the page image.
//
// header and footer may be nil. A band whose three texts are all empty is
// not drawn. Unknown template variables in band texts are rendered as an
// inline error message instead of failing the build.
func Build(matrix [][]image.Image, colHeaders, rowHeaders []string, vars PageVars,
	style Style, header, footer *HeaderFooterStyle) (image.Image, error) {
	p, err := prepare(matrix, colHeaders, rowHeaders, vars, style, header, footer)
	if err != nil {
		return nil, err
	}
	l := p.layout()

	bg, _ := ParseBackground(style.BackgroundColor)
	canvas := imaging.New(l.Width, l.Height, bg)

	if l.HeaderHeight > 0 {
		fillBand(canvas, image.Rect(0, 0, l.Width, l.HeaderHeight), p.header, bg)
	}
	if l.FooterHeight > 0 {
		fillBand(canvas, image.Rect(0, l.Height-l.FooterHeight, l.Width, l.Height), p.footer, bg)
	}

	for r, row := range p.matrix {
		for c, img := range row {
			b := img.Bounds()
			at := l.CellOrigin(r, c, style.Gap).Add(image.Pt((l.CellW-b.Dx())/2, (l.CellH-b.Dy())/2))
			draw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(b.Size())}, img, b.Min, draw.Src)
		}
	}

	if !p.hasText() {
		return canvas, nil
	}

	dc := gg.NewContextForImage(canvas)
	if err := p.drawHeaders(dc, l); err != nil {
		return nil, err
	}
	if l.HeaderHeight > 0 {
		if err := drawBand(dc, p.header, p.headerFace, p.headerTexts, 0, l.Width, l.HeaderHeight); err != nil {
			return nil, err
		}
	}
	if l.FooterHeight > 0 {
		if err := drawBand(dc, p.footer, p.footerFace, p.footerTexts, l.Height-l.FooterHeight, l.Width, l.FooterHeight); err != nil {
			return nil, err
		}
	}
	return dc.Image(), nil
}

func prepare(matrix [][]image.Image, colHeaders, rowHeaders []string, vars PageVars,
	style Style, header, footer *HeaderFooterStyle) (*page, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image matrix is empty")
	}
	cols := len(matrix[0])
	for r, row := range matrix {
		if len(row) != cols {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"image matrix row %d has %d cells, want %d", r, len(row), cols)
		}
		for c, img := range row {
			if img == nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "image matrix cell (%d,%d) is empty", r, c)
			}
		}
	}
	if len(colHeaders) > cols || len(rowHeaders) > len(matrix) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%d column and %d row labels for a %dx%d grid", len(colHeaders), len(rowHeaders), len(matrix), cols)
	}

	face, err := fonts.Face(style.Font, float64(style.FontSize))
	if err != nil {
		return nil, err
	}
	p := &page{
		matrix:     matrix,
		colHeaders: normalizeHeaders(colHeaders, style.WrapColHeaders),
		rowHeaders: normalizeHeaders(rowHeaders, style.WrapRowHeaders),
		style:      style,
		vars:       vars,
		face:       face,
	}

	if !header.Empty() {
		if p.headerFace, p.headerTexts, err = prepareBand(header, vars); err != nil {
			return nil, err
		}
		p.header = header
	}
	if !footer.Empty() {
		if p.footerFace, p.footerTexts, err = prepareBand(footer, vars); err != nil {
			return nil, err
		}
		p.footer = footer
	}
	return p, nil
}

func prepareBand(s *HeaderFooterStyle, vars PageVars) (font.Face, [3]string, error) {
	var texts [3]string
	if err := s.Validate(); err != nil {
		return nil, texts, err
	}
	face, err := fonts.Face(s.Font, float64(s.FontSize))
	if err != nil {
		return nil, texts, err
	}
	lookup := vars.Vars()
	for i, t := range s.texts() {
		texts[i] = template.Apply(t, lookup)
	}
	return face, texts, nil
}

func (p *page) layout() Layout {
	l := Layout{Rows: len(p.matrix), Cols: len(p.matrix[0])}
	for _, row := range p.matrix {
		for _, img := range row {
			b := img.Bounds()
			l.CellW = max(l.CellW, b.Dx())
			l.CellH = max(l.CellH, b.Dy())
		}
	}
	gap := p.style.Gap
	l.GridW = l.Cols*l.CellW + (l.Cols-1)*gap
	l.GridH = l.Rows*l.CellH + (l.Rows-1)*gap

	for _, h := range p.colHeaders {
		if h != "" {
			l.TopMargin = max(l.TopMargin, textHeight(h, p.style.FontSize))
		}
	}
	if l.TopMargin > 0 {
		l.TopMargin += 2 * p.style.PadColHeaders
	}
	for _, h := range p.rowHeaders {
		if h != "" {
			l.LeftMargin = max(l.LeftMargin, textWidth(p.face, h))
		}
	}
	if l.LeftMargin > 0 {
		l.LeftMargin += 2 * p.style.PadRowHeaders
	}

	if p.header != nil {
		l.HeaderHeight = bandHeight(p.header, p.headerTexts)
	}
	if p.footer != nil {
		l.FooterHeight = bandHeight(p.footer, p.footerTexts)
	}

	l.Width = l.GridW + l.LeftMargin
	l.Height = l.GridH + l.TopMargin + l.HeaderHeight + l.FooterHeight
	return l
}

func (p *page) hasText() bool {
	if p.header != nil || p.footer != nil {
		return true
	}
	for _, h := range p.colHeaders {
		if h != "" {
			return true
		}
	}
	for _, h := range p.rowHeaders {
		if h != "" {
			return true
		}
	}
	return false
}

// drawHeaders draws the column labels centred above their columns and the
// row labels centred left of their rows.
func (p *page) drawHeaders(dc *gg.Context, l Layout) error {
	fg, err := ParseColor(p.style.FontColor)
	if err != nil {
		return err
	}
	dc.SetFontFace(p.face)
	dc.SetColor(fg)

	gap := float64(p.style.Gap)
	top := float64(l.HeaderHeight)
	for col, h := range p.colHeaders {
		if h == "" {
			continue
		}
		x := float64(l.LeftMargin) + float64(col)*(gap+float64(l.CellW)) + float64(l.CellW)/2
		y := top + float64(l.TopMargin)/2
		drawLines(dc, h, x, y, 0.5, p.style.FontSize)
	}
	for row, h := range p.rowHeaders {
		if h == "" {
			continue
		}
		x := float64(l.LeftMargin) / 2
		y := top + float64(l.TopMargin) + float64(row)*(gap+float64(l.CellH)) + float64(l.CellH)/2
		drawLines(dc, h, x, y, 0.5, p.style.FontSize)
	}
	return nil
}

// drawLines draws multi-line text vertically centred on y, one font size
// per line. ax anchors each line horizontally: 0 left, 0.5 centre, 1 right.
func drawLines(dc *gg.Context, text string, x, y, ax float64, fontSize int) {
	lines := strings.Split(text, "\n")
	fs := float64(fontSize)
	top := y - float64(len(lines))*fs/2
	for i, line := range lines {
		dc.DrawStringAnchored(line, x, top+float64(i)*fs+fs/2, ax, 0.5)
	}
}

// bandColor returns the band background, inheriting the grid background
// for "transparent".
func bandColor(s *HeaderFooterStyle, gridBg color.NRGBA) color.NRGBA {
	c, err := ParseBackground(s.BackgroundColor)
	if err != nil || strings.EqualFold(strings.TrimSpace(s.BackgroundColor), Transparent) {
		return gridBg
	}
	return c
}
