// Package pipeline runs sweeps: it feeds per-iteration images into page
// accumulators and composes every completed page into a grid image.
//
// This package is shared by the CLI, which drives a sweep locally, and by
// the API server, where a remote host drives the sweep one request at a
// time. Both go through [Runner.Step], so page accumulation, caching and
// composition behave identically for every entry point.
//
// # Architecture
//
// One sweep iteration flows through three stages:
//
//  1. Index: map the global index onto a page and cell ([sweep.Index])
//  2. Accumulate: store the image in its page ([pager.Registry])
//  3. Compose: when the page is complete, draw the grid ([grid.Build])
//
// Until a page completes, Step only passes the raw image through.
//
// # Usage
//
// Drive a whole sweep locally:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Dims = sweep.Dims{Dim1: steps, Dim2: samplers, MaxDim1PerPage: 4}
//	result, err := runner.Execute(ctx, opts, pipeline.NewSwatchSource(256, 256), &pipeline.DirSink{Dir: "out"})
//
// Drive it step by step:
//
//	rec, _ := sweep.Index(opts.Dims, idx)
//	res, err := runner.Step(ctx, sweepID, rec, img, opts)
//	if !res.Blocked {
//	    // res.Grid holds the finished page
//	}
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/xyplot/pkg/cache"
	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/grid"
	"github.com/matzehuels/xyplot/pkg/pager"
	"github.com/matzehuels/xyplot/pkg/sweep"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFilename names the written pages.
	DefaultFilename = "xyplot_{current_page}_of_{total_pages}.png"

	// DefaultCellSize is the edge length of generated swatch cells.
	DefaultCellSize = 256

	// DefaultOrientation places dim1 on the rows.
	DefaultOrientation = "rows"
)

// Format constants for encoded page images.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
}

// =============================================================================
// Options - Sweep Configuration
// =============================================================================

// Options contains all configuration of a sweep.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Sweep dimensions and page caps
	sweep.Dims

	// Labels and layout
	HeaderFormats pager.HeaderFormats `json:"header_formats"`
	Orientation   string              `json:"orientation,omitempty"` // placement of dim1: rows or columns

	// Styles
	Grid   grid.Style              `json:"grid"`
	Header *grid.HeaderFooterStyle `json:"header,omitempty"`
	Footer *grid.HeaderFooterStyle `json:"footer,omitempty"`

	// Output
	Format  string `json:"format,omitempty"`
	Refresh bool   `json:"refresh,omitempty"` // skip cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result summarizes a sweep driven by Execute.
type Result struct {
	SweepID    string
	Iterations int
	Pages      int
	CacheHits  int
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: png, jpeg)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// DefaultOptions returns options with every default applied and no
// dimensions.
func DefaultOptions() Options {
	return Options{
		HeaderFormats: pager.DefaultHeaderFormats(),
		Orientation:   DefaultOrientation,
		Grid:          grid.DefaultStyle(),
		Format:        FormatPNG,
	}
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Dims.Validate(); err != nil {
		return err
	}
	o.SetDefaults()

	if _, err := pager.ParseOrientation(o.Orientation); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := o.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if !o.Header.Empty() {
		if err := o.Header.Validate(); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}
	if !o.Footer.Empty() {
		if err := o.Footer.Validate(); err != nil {
			return fmt.Errorf("footer: %w", err)
		}
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields. A zero grid style means the default
// style.
func (o *Options) SetDefaults() {
	if o.Grid == (grid.Style{}) {
		o.Grid = grid.DefaultStyle()
	}
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// orientation returns the parsed orientation; options are validated first.
func (o *Options) orientation() pager.Orientation {
	orient, _ := pager.ParseOrientation(o.Orientation)
	return orient
}

// GridKeyOpts returns cache key options for a completed page.
func (o *Options) GridKeyOpts(p *pager.Page) cache.GridKeyOpts {
	opts := cache.GridKeyOpts{
		ColHeaders:  p.ColHeaders(),
		RowHeaders:  p.RowHeaders(),
		CurrentPage: p.Number() + 1,
		TotalPages:  p.TotalPages(),
		Style:       o.Grid,
	}
	if !o.Header.Empty() {
		opts.Header = o.Header
	}
	if !o.Footer.Empty() {
		opts.Footer = o.Footer
	}
	return opts
}
