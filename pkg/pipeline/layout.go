package pipeline

import (
	"github.com/matzehuels/xyplot/pkg/sweep"
)

// PageShape describes one page of a sweep before any image exists.
type PageShape struct {
	Number     int `json:"page"`  // 1-based
	FirstIndex int `json:"first"` // global index of the first iteration on the page
	Rows       int `json:"rows"`  // dim1 values on the page
	Cols       int `json:"cols"`  // dim2 values on the page
}

// Cells returns the number of images the page holds.
func (s PageShape) Cells() int { return s.Rows * s.Cols }

// PlanPages lists the pages of a sweep in the order they complete. Pages
// are reported in dim1/dim2 terms regardless of orientation.
func PlanPages(d sweep.Dims) ([]PageShape, error) {
	cur, err := sweep.NewCursor(d)
	if err != nil {
		return nil, err
	}
	pages := make([]PageShape, 0, d.TotalPages())
	for {
		rec, ok := cur.Next()
		if !ok {
			break
		}
		if !rec.StartsPage() {
			continue
		}
		pages = append(pages, PageShape{
			Number:     rec.CurrentPage(),
			FirstIndex: rec.Index,
			Rows:       rec.Dim1.PageLength,
			Cols:       rec.Dim2.PageLength,
		})
	}
	return pages, nil
}
