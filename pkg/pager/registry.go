package pager

import (
	"image"
	"sort"
	"sync"

	"github.com/matzehuels/xyplot/pkg/sweep"
)

// Key addresses one pending page.
type Key struct {
	Sweep string
	Page  int
}

// Registry holds the pages that are still accumulating. A page is created
// by the first image that targets it and evicted when it completes. A
// record at in-page index 0 always starts its page afresh, discarding any
// images a previous attempt left behind.
type Registry struct {
	// OnRestart, if set, is called with the registry locked whenever a
	// pending page holding discarded images is replaced.
	OnRestart func(key Key, discarded int)

	mu    sync.Mutex
	pages map[Key]*Page
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[Key]*Page)}
}

// Add feeds img into the page addressed by (sweepID, rec.PageNumber).
// When that completes the page, the page is removed from the registry and
// returned; otherwise the returned page is nil.
func (r *Registry) Add(sweepID string, rec sweep.Record, img image.Image, formats HeaderFormats, orient Orientation) (*Page, error) {
	key := Key{Sweep: sweepID, Page: rec.PageNumber}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pages[key]
	if ok && rec.StartsPage() {
		if r.OnRestart != nil {
			r.OnRestart(key, p.Count())
		}
		ok = false
	}
	if !ok {
		p = NewPage(rec, formats, orient)
		r.pages[key] = p
	}
	complete, err := p.Add(rec, img)
	if err != nil {
		if !ok {
			delete(r.pages, key)
		}
		return nil, err
	}
	if !complete {
		return nil, nil
	}
	delete(r.pages, key)
	return p, nil
}

// Drop forgets every pending page of a sweep and returns how many were
// discarded.
func (r *Registry) Drop(sweepID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for k := range r.pages {
		if k.Sweep == sweepID {
			delete(r.pages, k)
			n++
		}
	}
	return n
}

// Pending returns the numbers of the pages of a sweep that are still
// accumulating, sorted.
func (r *Registry) Pending(sweepID string) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pages []int
	for k := range r.pages {
		if k.Sweep == sweepID {
			pages = append(pages, k.Page)
		}
	}
	sort.Ints(pages)
	return pages
}

// Len returns the number of pending pages across all sweeps.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}
