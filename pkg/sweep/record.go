package sweep

// DimState is the state of one dimension at a single sweep iteration.
type DimState struct {
	// IndexInPage is the 0-based position along this dimension within the
	// current page.
	IndexInPage int `json:"index_in_page"`

	// PageLength is the number of positions this dimension has in the
	// current page. It is smaller than the configured cap on a final
	// partial page.
	PageLength int `json:"page_length"`

	// Value is the dimension value for this iteration.
	Value Value `json:"value"`
}

// Record describes one sweep iteration: where the global index falls in the
// page layout and which values it selects. Records are produced by Index and
// never modified afterwards.
type Record struct {
	Index         int      `json:"index"`          // global index
	Total         int      `json:"total"`          // n1 * n2
	IndexInPage   int      `json:"index_in_page"`  // sequential position within the page
	PageNumber    int      `json:"page_number"`    // 0-based
	TotalPages    int      `json:"total_pages"`
	SweepComplete bool     `json:"sweep_complete"` // last iteration of the whole sweep
	Dim1          DimState `json:"dim1"`
	Dim2          DimState `json:"dim2"`
}

// CurrentPage returns the 1-based page number, as shown to users.
func (r Record) CurrentPage() int { return r.PageNumber + 1 }

// PageCells returns the number of cells of the record's page.
func (r Record) PageCells() int { return r.Dim1.PageLength * r.Dim2.PageLength }

// StartsPage reports whether r is the first iteration of its page.
func (r Record) StartsPage() bool { return r.IndexInPage == 0 }

// EndsPage reports whether r is the last iteration of its page.
func (r Record) EndsPage() bool { return r.IndexInPage == r.PageCells()-1 }
