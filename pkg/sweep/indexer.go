package sweep

import (
	"github.com/matzehuels/xyplot/pkg/errors"
)

// Dims holds the two sweep dimensions and the per-page caps.
//
// Dim2 is optional: when empty the sweep behaves as a single-column sweep
// over one empty string value. A cap of 0 means "no cap".
type Dims struct {
	Dim1           []Value `json:"dim1"`
	Dim2           []Value `json:"dim2,omitempty"`
	MaxDim1PerPage int     `json:"max_dim1_per_page,omitempty"`
	MaxDim2PerPage int     `json:"max_dim2_per_page,omitempty"`
}

// placeholderDim2 stands in for an absent second dimension.
var placeholderDim2 = []Value{Str("")}

// Validate checks that the dimensions describe a non-empty sweep.
func (d Dims) Validate() error {
	if len(d.Dim1) == 0 {
		return errors.New(errors.ErrCodeEmptyList, "dim1 list is empty")
	}
	if d.MaxDim1PerPage < 0 || d.MaxDim2PerPage < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"max values per page cannot be negative (dim1=%d, dim2=%d)", d.MaxDim1PerPage, d.MaxDim2PerPage)
	}
	return nil
}

// dim2 returns the effective second dimension.
func (d Dims) dim2() []Value {
	if len(d.Dim2) == 0 {
		return placeholderDim2
	}
	return d.Dim2
}

// Len returns the effective dimension lengths (n1, n2).
func (d Dims) Len() (int, int) {
	return len(d.Dim1), len(d.dim2())
}

// Total returns the number of iterations in the sweep.
func (d Dims) Total() int {
	n1, n2 := d.Len()
	return n1 * n2
}

// PageSize returns the full page extent along each dimension. A cap only
// applies when it is positive and smaller than the dimension.
func (d Dims) PageSize() (int, int) {
	n1, n2 := d.Len()
	p1, p2 := n1, n2
	if d.MaxDim1PerPage > 0 && d.MaxDim1PerPage < n1 {
		p1 = d.MaxDim1PerPage
	}
	if d.MaxDim2PerPage > 0 && d.MaxDim2PerPage < n2 {
		p2 = d.MaxDim2PerPage
	}
	return p1, p2
}

// PageGrid returns how many pages the sweep spans along each dimension.
func (d Dims) PageGrid() (int, int) {
	n1, n2 := d.Len()
	p1, p2 := d.PageSize()
	return ceilDiv(n1, p1), ceilDiv(n2, p2)
}

// TotalPages returns the number of pages of the sweep.
func (d Dims) TotalPages() int {
	rows, cols := d.PageGrid()
	return rows * cols
}

// Index maps a global sweep index onto its page, position in page and
// dimension values.
//
// The sweep visits dim2 fastest: for a fixed dim1 value, every dim2 value of
// the page is produced before dim1 advances. Pages are laid out as a grid of
// blocks; the last block along each dimension may be shorter than the cap.
//
// A negative index is the host's reset signal and is treated as 0. An index
// at or past the end of the sweep is rejected.
func Index(d Dims, idx int) (Record, error) {
	if err := d.Validate(); err != nil {
		return Record{}, err
	}
	if idx < 0 {
		idx = 0
	}
	list1, list2 := d.Dim1, d.dim2()
	n1, n2 := len(list1), len(list2)
	total := n1 * n2
	if idx >= total {
		return Record{}, errors.New(errors.ErrCodeIndexOutOfRange,
			"index %d out of range (sweep has %d iterations)", idx, total)
	}

	p1, p2 := d.PageSize()

	// page block row, and the dim1 extent of that row (last one may be short)
	pageRow := idx / (n2 * p1)
	actual1 := min(p1, n1-pageRow*p1)
	rem1 := idx - pageRow*n2*p1

	// page block column within the row
	pageCol := (rem1 / (actual1 * p2)) % n2
	actual2 := min(p2, n2-pageCol*p2)

	seq := rem1 - pageCol*actual1*p2
	pos1, pos2 := seq/actual2, seq%actual2

	return Record{
		Index:         idx,
		Total:         total,
		IndexInPage:   seq,
		PageNumber:    pageRow*ceilDiv(n2, p2) + pageCol,
		TotalPages:    ceilDiv(n1, p1) * ceilDiv(n2, p2),
		SweepComplete: idx == total-1,
		Dim1: DimState{
			IndexInPage: pos1,
			PageLength:  actual1,
			Value:       list1[pos1+pageRow*p1],
		},
		Dim2: DimState{
			IndexInPage: pos2,
			PageLength:  actual2,
			Value:       list2[pos2+pageCol*p2],
		},
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
