package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/xyplot/pkg/cache"
	"github.com/matzehuels/xyplot/pkg/grid"
	"github.com/matzehuels/xyplot/pkg/observability"
	"github.com/matzehuels/xyplot/pkg/pager"
	"github.com/matzehuels/xyplot/pkg/sweep"
)

// Runner encapsulates sweep execution with caching.
// Both CLI and API use this to avoid duplicating accumulation and caching
// logic.
//
// The Runner owns the registry of pages that are still accumulating; it
// stores nothing else. Multiple goroutines can safely use the same Runner
// for different sweeps.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Pages  *pager.Registry
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	pages := pager.NewRegistry()
	pages.OnRestart = func(key pager.Key, discarded int) {
		logger.Warn("restarted unfinished page", "sweep", key.Sweep, "page", key.Page+1, "discarded", discarded)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Pages:  pages,
	}
}

// StepResult is the outcome of feeding one image into a sweep.
type StepResult struct {
	Record sweep.Record

	// Image is the image that was fed in, passed through unchanged.
	Image image.Image

	// Blocked is true while the page is still accumulating. Grid is nil
	// then.
	Blocked bool

	// Grid is the composed page, set when this step completed it.
	Grid image.Image

	// CacheHit reports whether Grid came from the cache.
	CacheHit bool
}

// Step feeds one sweep iteration into the page it belongs to.
//
// An iteration with global index 0 starts the sweep over: pages of sweepID
// left pending by an interrupted earlier run are discarded first. Any
// iteration at in-page index 0 likewise restarts its own page.
func (r *Runner) Step(ctx context.Context, sweepID string, rec sweep.Record, img image.Image, opts Options) (*StepResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if rec.Index == 0 {
		if n := r.Pages.Drop(sweepID); n > 0 {
			r.Logger.Warn("discarded unfinished pages of restarted sweep", "sweep", sweepID, "pages", n)
		}
	}

	observability.Sweep().OnStep(ctx, sweepID, rec.Index, rec.PageNumber)
	r.Logger.Debug("sweep step",
		"sweep", sweepID,
		"index", rec.Index,
		"page", rec.CurrentPage(),
		"cell", fmt.Sprintf("%d,%d", rec.Dim1.IndexInPage, rec.Dim2.IndexInPage))

	page, err := r.Pages.Add(sweepID, rec, img, opts.HeaderFormats, opts.orientation())
	if err != nil {
		return nil, err
	}
	result := &StepResult{Record: rec, Image: img, Blocked: page == nil}
	if page == nil {
		return result, nil
	}

	observability.Sweep().OnPageComplete(ctx, sweepID, page.Number(), page.Expected())
	result.Grid, result.CacheHit, err = r.Compose(ctx, sweepID, page, opts)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Compose draws a completed page, using the cache when the same page was
// drawn before.
func (r *Runner) Compose(ctx context.Context, sweepID string, page *pager.Page, opts Options) (image.Image, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	matrix := page.Matrix()
	cacheKey := r.Keyer.GridKey(cache.HashImages(matrix), opts.GridKeyOpts(page))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			img, err := DecodeImage(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "grid")
				r.Logger.Debug("page from cache", "sweep", sweepID, "page", page.Number()+1)
				return img, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "grid")
	}

	start := time.Now()
	observability.Sweep().OnGridStart(ctx, sweepID, page.Number())
	img, err := grid.Build(matrix, page.ColHeaders(), page.RowHeaders(),
		grid.PageVars{CurrentPage: page.Number() + 1, TotalPages: page.TotalPages()},
		opts.Grid, opts.Header, opts.Footer)
	observability.Sweep().OnGridComplete(ctx, sweepID, page.Number(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Debug("composed page",
		"sweep", sweepID,
		"page", fmt.Sprintf("%d/%d", page.Number()+1, page.TotalPages()),
		"size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
		"duration", time.Since(start))

	// Cache the result
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, FormatPNG); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLGrid); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "grid", buf.Len())
		}
	}
	return img, false, nil
}

// Execute drives a whole sweep locally: it walks a cursor over every
// iteration, pulls one image per iteration from src and hands every
// composed page to sink. Cancellation is checked between iterations.
func (r *Runner) Execute(ctx context.Context, opts Options, src ImageSource, sink PageSink) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	cur, err := sweep.NewCursor(opts.Dims)
	if err != nil {
		return nil, err
	}

	result := &Result{SweepID: uuid.NewString()}
	defer r.Pages.Drop(result.SweepID)

	r.Logger.Debug("starting sweep",
		"sweep", result.SweepID,
		"iterations", cur.Total(),
		"pages", opts.Dims.TotalPages())

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rec, ok := cur.Next()
		if !ok {
			break
		}

		img, err := src.Image(ctx, rec)
		if err != nil {
			return result, fmt.Errorf("image for index %d: %w", rec.Index, err)
		}
		step, err := r.Step(ctx, result.SweepID, rec, img, opts)
		if err != nil {
			return result, fmt.Errorf("step %d: %w", rec.Index, err)
		}
		result.Iterations++
		if step.Blocked {
			continue
		}

		result.Pages++
		if step.CacheHit {
			result.CacheHits++
		}
		out := PageOutput{
			Image:      step.Grid,
			Page:       rec.CurrentPage(),
			TotalPages: rec.TotalPages,
			Format:     opts.Format,
		}
		if err := sink.WritePage(ctx, out); err != nil {
			return result, fmt.Errorf("write page %d: %w", out.Page, err)
		}
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
