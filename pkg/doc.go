// Package pkg provides the core libraries of xyplot, which lays out image
// sweeps as labelled grids.
//
// # Overview
//
// An XY sweep runs some image generator once for every combination of two
// parameter lists (dim1 × dim2, dim2 varying fastest). xyplot maps each
// iteration onto a page and a cell, collects the images of a page as they
// arrive, and composes every completed page into a single grid image with
// row and column labels and optional header and footer bands.
//
// The pkg directory is organized into three areas:
//
//  1. Sweep logic: [sweep], [pager], [template]
//  2. Drawing: [grid], [fonts]
//  3. Orchestration and infrastructure: [pipeline], [cache], [config],
//     [session], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow of one sweep iteration:
//
//	global index
//	     ↓
//	[sweep] package (page, cell and values of the iteration)
//	     ↓
//	[pager] package (store the image in its page)
//	     ↓
//	[grid] package (compose the page once it is complete)
//	     ↓
//	PNG/JPEG page
//
// # Quick Start
//
// Map an index and compose a page by hand:
//
//	dims := sweep.Dims{Dim1: steps, Dim2: samplers, MaxDim1PerPage: 4}
//	rec, _ := sweep.Index(dims, 7)
//
//	reg := pager.NewRegistry()
//	page, _ := reg.Add("sweep-1", rec, img, pager.DefaultHeaderFormats(), pager.Dim1Rows)
//	if page != nil {
//	    out, _ := grid.Build(page.Matrix(), page.ColHeaders(), page.RowHeaders(),
//	        grid.PageVars{CurrentPage: page.Number() + 1, TotalPages: page.TotalPages()},
//	        grid.DefaultStyle(), nil, nil)
//	}
//
// Or let the pipeline drive a whole sweep with caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, _ := runner.Execute(ctx, opts, pipeline.NewSwatchSource(256, 256), &pipeline.DirSink{Dir: "out"})
//
// # Main Packages
//
// [sweep] - Sweep values, the index-to-page mapping and a cursor over all
// iterations. Values are a tagged union of string, integer, float, boolean
// and none, converted from raw text by an explicit conversion rule.
//
// [pager] - Page accumulators keyed by sweep and page number. A page is
// evicted from the registry as soon as its last cell arrives.
//
// [grid] - Grid composition: cell placement, label wrapping, header and
// footer bands with {current_page} and {total_pages} templates.
//
// [pipeline] - Runner shared by the CLI and the API server: accumulate,
// compose, cache.
//
// [cache] - Composed page cache with file, Redis and null backends.
//
// # Testing
//
// Run tests:
//
//	go test ./...                                  # All tests
//	go test ./pkg/sweep/...                        # Specific package
//	XYPLOT_TEST_REDIS=localhost:6379 go test ./pkg/cache/...
//
// [sweep]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/sweep
// [pager]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/pager
// [template]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/template
// [grid]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/grid
// [fonts]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/config
// [session]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/session
// [errors]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/xyplot/pkg/buildinfo
package pkg
