// Package pager collects per-iteration images into page matrices.
//
// A [Page] accumulates the images of one page of a sweep together with the
// row and column labels derived from the dimension values. A [Registry]
// holds the pages that are still being filled, keyed by sweep id and page
// number, and hands a page back exactly once when it completes.
package pager

import (
	"image"

	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/sweep"
	"github.com/matzehuels/xyplot/pkg/template"
)

// Orientation selects which dimension runs down the rows of the grid.
type Orientation int

const (
	// Dim1Rows lays dim1 values out as rows and dim2 values as columns.
	Dim1Rows Orientation = iota
	// Dim1Cols lays dim1 values out as columns and dim2 values as rows.
	Dim1Cols
)

// ParseOrientation accepts "rows" or "columns" (the placement of dim1).
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "rows", "row":
		return Dim1Rows, nil
	case "columns", "cols", "column":
		return Dim1Cols, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid orientation %q: must be 'rows' or 'columns'", s)
}

// String returns the placement of dim1.
func (o Orientation) String() string {
	if o == Dim1Cols {
		return "columns"
	}
	return "rows"
}

// HeaderFormats are the label templates for each dimension. Dim1 may
// reference {dim1} and Dim2 may reference {dim2}. An empty template yields
// empty labels, which the grid skips.
type HeaderFormats struct {
	Dim1 string `json:"dim1" toml:"dim1"`
	Dim2 string `json:"dim2" toml:"dim2"`
}

// DefaultHeaderFormats labels rows and columns with the bare values.
func DefaultHeaderFormats() HeaderFormats {
	return HeaderFormats{Dim1: "{dim1}", Dim2: "{dim2}"}
}

// Page accumulates the images of a single page.
//
// A Page is not safe for concurrent use; the Registry serializes access.
type Page struct {
	number     int
	totalPages int
	dim1Len    int
	dim2Len    int
	orient     Orientation
	formats    HeaderFormats

	cells       [][]image.Image // always [dim1][dim2]
	dim1Headers []string
	dim2Headers []string
	dim1Seen    []bool
	dim2Seen    []bool
	count       int
}

// NewPage sizes an empty page from the page lengths carried by rec.
func NewPage(rec sweep.Record, formats HeaderFormats, orient Orientation) *Page {
	n1, n2 := rec.Dim1.PageLength, rec.Dim2.PageLength
	cells := make([][]image.Image, n1)
	for i := range cells {
		cells[i] = make([]image.Image, n2)
	}
	return &Page{
		number:      rec.PageNumber,
		totalPages:  rec.TotalPages,
		dim1Len:     n1,
		dim2Len:     n2,
		orient:      orient,
		formats:     formats,
		cells:       cells,
		dim1Headers: make([]string, n1),
		dim2Headers: make([]string, n2),
		dim1Seen:    make([]bool, n1),
		dim2Seen:    make([]bool, n2),
	}
}

// Number returns the 0-based page number.
func (p *Page) Number() int { return p.number }

// TotalPages returns the page count of the sweep the page belongs to.
func (p *Page) TotalPages() int { return p.totalPages }

// Expected returns the number of images that complete the page.
func (p *Page) Expected() int { return p.dim1Len * p.dim2Len }

// Count returns the number of images added so far.
func (p *Page) Count() int { return p.count }

// Complete reports whether every cell has been populated.
func (p *Page) Complete() bool { return p.count >= p.Expected() }

// Orientation returns the placement of dim1.
func (p *Page) Orientation() Orientation { return p.orient }

// Add stores img at the cell selected by rec and records the dimension
// labels the first time each in-page position is seen. It reports whether
// the page is complete afterwards.
func (p *Page) Add(rec sweep.Record, img image.Image) (bool, error) {
	if img == nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "image for index %d is nil", rec.Index)
	}
	if rec.PageNumber != p.number || rec.Dim1.PageLength != p.dim1Len || rec.Dim2.PageLength != p.dim2Len {
		return false, errors.New(errors.ErrCodeInvalidInput,
			"index %d belongs to page %d (%dx%d), not page %d (%dx%d)",
			rec.Index, rec.PageNumber, rec.Dim1.PageLength, rec.Dim2.PageLength,
			p.number, p.dim1Len, p.dim2Len)
	}
	i, j := rec.Dim1.IndexInPage, rec.Dim2.IndexInPage
	if i < 0 || i >= p.dim1Len || j < 0 || j >= p.dim2Len {
		return false, errors.New(errors.ErrCodeIndexOutOfRange,
			"cell (%d,%d) outside page of %dx%d", i, j, p.dim1Len, p.dim2Len)
	}
	if p.cells[i][j] != nil {
		return false, errors.New(errors.ErrCodeCellPopulated,
			"cell (%d,%d) of page %d already populated", i, j, p.number)
	}

	if !p.dim1Seen[i] {
		p.dim1Seen[i] = true
		p.dim1Headers[i] = template.Apply(p.formats.Dim1, map[string]string{"dim1": rec.Dim1.Value.String()})
	}
	if !p.dim2Seen[j] {
		p.dim2Seen[j] = true
		p.dim2Headers[j] = template.Apply(p.formats.Dim2, map[string]string{"dim2": rec.Dim2.Value.String()})
	}

	p.cells[i][j] = img
	p.count++
	return p.Complete(), nil
}

// Matrix returns the images as rows of cells, transposed when dim1 runs
// along the columns. Cells not yet populated are nil.
func (p *Page) Matrix() [][]image.Image {
	if p.orient == Dim1Rows {
		out := make([][]image.Image, p.dim1Len)
		for i := range out {
			out[i] = append([]image.Image(nil), p.cells[i]...)
		}
		return out
	}
	out := make([][]image.Image, p.dim2Len)
	for j := range out {
		out[j] = make([]image.Image, p.dim1Len)
		for i := 0; i < p.dim1Len; i++ {
			out[j][i] = p.cells[i][j]
		}
	}
	return out
}

// ColHeaders returns the labels of the grid columns.
func (p *Page) ColHeaders() []string {
	if p.orient == Dim1Rows {
		return append([]string(nil), p.dim2Headers...)
	}
	return append([]string(nil), p.dim1Headers...)
}

// RowHeaders returns the labels of the grid rows.
func (p *Page) RowHeaders() []string {
	if p.orient == Dim1Rows {
		return append([]string(nil), p.dim1Headers...)
	}
	return append([]string(nil), p.dim2Headers...)
}
