package sweep

import (
	"github.com/matzehuels/xyplot/pkg/errors"
)

// Cursor walks a sweep one iteration at a time. It is the explicit,
// caller-owned form of the host's externally held index: whoever drives the
// sweep owns the Cursor and may Seek it to resume or Reset it after an
// interruption.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	dims  Dims
	total int
	next  int
}

// NewCursor validates dims and returns a cursor positioned at index 0.
func NewCursor(dims Dims) (*Cursor, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	return &Cursor{dims: dims, total: dims.Total()}, nil
}

// Dims returns the dimensions the cursor walks.
func (c *Cursor) Dims() Dims { return c.dims }

// Total returns the number of iterations in the sweep.
func (c *Cursor) Total() int { return c.total }

// Index returns the index the next call to Next will produce.
func (c *Cursor) Index() int { return c.next }

// Done reports whether every iteration has been produced.
func (c *Cursor) Done() bool { return c.next >= c.total }

// Next returns the record for the current index and advances the cursor.
// It returns false once the sweep is exhausted.
func (c *Cursor) Next() (Record, bool) {
	if c.Done() {
		return Record{}, false
	}
	rec, err := Index(c.dims, c.next)
	if err != nil {
		// dims were validated and next is in range
		panic(err)
	}
	c.next++
	return rec, true
}

// Reset moves the cursor back to the first iteration.
func (c *Cursor) Reset() { c.next = 0 }

// Seek positions the cursor at idx. Negative values reset to 0, following
// the host convention that a negative index means "state was reset".
func (c *Cursor) Seek(idx int) error {
	if idx < 0 {
		idx = 0
	}
	if idx > c.total {
		return errors.New(errors.ErrCodeIndexOutOfRange,
			"cannot seek to %d (sweep has %d iterations)", idx, c.total)
	}
	c.next = idx
	return nil
}
