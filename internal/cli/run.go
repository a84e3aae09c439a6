package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xyplot/pkg/config"
	"github.com/matzehuels/xyplot/pkg/grid"
	"github.com/matzehuels/xyplot/pkg/pipeline"
)

// sweepFlags holds the flags shared by run and index.
type sweepFlags struct {
	dim1, dim2             string
	sep                    string
	dim1Type, dim2Type     string
	dim1Range, dim2Range   string
	dim1File, dim2File     string
	maxDim1, maxDim2       int
	dim1Format, dim2Format string
	cols                   bool
}

func (f *sweepFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.dim1, "dim1", "", "dim1 values, separated by --sep")
	fs.StringVar(&f.dim2, "dim2", "", "dim2 values, separated by --sep")
	fs.StringVar(&f.sep, "sep", ",", "separator of --dim1 and --dim2 lists")
	fs.StringVar(&f.dim1Type, "dim1-type", "", "convert dim1 values: disabled, integer, float, boolean")
	fs.StringVar(&f.dim2Type, "dim2-type", "", "convert dim2 values: disabled, integer, float, boolean")
	fs.StringVar(&f.dim1Range, "dim1-range", "", "dim1 as min:max:step")
	fs.StringVar(&f.dim2Range, "dim2-range", "", "dim2 as min:max:step")
	fs.StringVar(&f.dim1File, "dim1-file", "", "dim1 values, one per line")
	fs.StringVar(&f.dim2File, "dim2-file", "", "dim2 values, one per line")
	fs.IntVar(&f.maxDim1, "max-dim1", 0, "max dim1 values per page (0 = no limit)")
	fs.IntVar(&f.maxDim2, "max-dim2", 0, "max dim2 values per page (0 = no limit)")
	fs.StringVar(&f.dim1Format, "dim1-format", "", `dim1 label template (default "{dim1}")`)
	fs.StringVar(&f.dim2Format, "dim2-format", "", `dim2 label template (default "{dim2}")`)
	fs.BoolVar(&f.cols, "cols", false, "place dim1 values on columns instead of rows")
	registerSweepCompletions(cmd)
}

// apply overrides config values with the flags that were set.
func (f *sweepFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	dimSpec := func(spec *pipeline.DimSpec, values, typ, rng, file string) {
		if values != "" || rng != "" || file != "" {
			*spec = pipeline.DimSpec{Values: values, Separator: f.sep, Range: rng, File: file, StripComments: true, Type: spec.Type}
		}
		if typ != "" {
			spec.Type = typ
		}
	}
	dimSpec(&cfg.Sweep.Dim1, f.dim1, f.dim1Type, f.dim1Range, f.dim1File)
	dimSpec(&cfg.Sweep.Dim2, f.dim2, f.dim2Type, f.dim2Range, f.dim2File)

	if fs.Changed("max-dim1") {
		cfg.Sweep.MaxDim1PerPage = f.maxDim1
	}
	if fs.Changed("max-dim2") {
		cfg.Sweep.MaxDim2PerPage = f.maxDim2
	}
	if fs.Changed("dim1-format") {
		cfg.Sweep.HeaderFormats.Dim1 = f.dim1Format
	}
	if fs.Changed("dim2-format") {
		cfg.Sweep.HeaderFormats.Dim2 = f.dim2Format
	}
	if f.cols {
		cfg.Sweep.Orientation = "columns"
	}
}

// runOpts holds the flags of the run command.
type runOpts struct {
	sweep    sweepFlags
	images   string
	cellSize int
	output   string
	filename string
	format   string
	title    string
	footer   string
	noCache  bool
	refresh  bool
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a sweep and write one grid image per page",
		Long: `Drive a sweep over every dim1 × dim2 combination and write the composed pages.

Images are read from --images, a glob whose sorted matches are taken in
sweep order (dim2 varies fastest). Without --images, labelled colour
swatches are generated so the page layout can be previewed.`,
		Example: `  # Preview a 5 × 3 sweep, at most 2 rows per page
  xyplot run --dim1-range 10:50:10 --dim2 "euler,ddim,lms" --max-dim1 2

  # Compose generated images with a title
  xyplot run --dim1 "0.5,1,2" --dim1-type float --images "out/*.png" --title "cfg sweep"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSweep(cmd, opts)
		},
	}

	opts.sweep.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&opts.images, "images", "", "glob of input images, one per iteration")
	fs.IntVar(&opts.cellSize, "cell-size", 0, "swatch size in pixels when --images is not set")
	fs.StringVarP(&opts.output, "output", "o", "", "output directory")
	fs.StringVar(&opts.filename, "filename", "", "page filename template with {current_page} and {total_pages}")
	fs.StringVarP(&opts.format, "format", "f", "", "page format: png or jpeg")
	fs.StringVar(&opts.title, "title", "", "header text, centred; may use {current_page} and {total_pages}")
	fs.StringVar(&opts.footer, "footer", "", "footer text, right aligned")
	fs.BoolVar(&opts.noCache, "no-cache", false, "disable the page cache")
	fs.BoolVar(&opts.refresh, "refresh", false, "recompose pages even when cached")
	registerRunCompletions(cmd)

	return cmd
}

func (c *CLI) runSweep(cmd *cobra.Command, opts runOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts.sweep.apply(cmd, cfg)
	applyRunFlags(cmd, cfg, opts)

	popts, err := cfg.Options()
	if err != nil {
		return err
	}
	popts.Refresh = opts.refresh
	popts.Logger = c.Logger

	var src pipeline.ImageSource
	if opts.images != "" {
		fsrc, err := pipeline.NewFileSource(opts.images)
		if err != nil {
			return err
		}
		if len(fsrc.Paths) < popts.Total() {
			return fmt.Errorf("%d images match %q, sweep needs %d", len(fsrc.Paths), opts.images, popts.Total())
		}
		if extra := len(fsrc.Paths) - popts.Total(); extra > 0 {
			printWarning(cmd.ErrOrStderr(), "%d images match %q, ignoring the last %d", len(fsrc.Paths), opts.images, extra)
		}
		src = fsrc
	} else {
		src = pipeline.NewSwatchSource(cfg.Output.CellSize, cfg.Output.CellSize)
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	sink := &pipeline.DirSink{Dir: cfg.Output.Dir, Filename: cfg.Output.Filename}
	prog := newProgress(c.Logger)
	result, err := c.executeWithSpinner(ctx, cmd.ErrOrStderr(), runner, popts, src, sink)
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Wrote %d pages", result.Pages), "iterations", result.Iterations)
	w := cmd.OutOrStdout()
	printSuccess(w, "Sweep complete")
	printSweepStats(w, result.Iterations, result.Pages, result.CacheHits)
	for _, p := range sink.Written {
		printFile(w, p)
	}
	return nil
}

// applyRunFlags overrides output and band settings with set flags.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, opts runOpts) {
	fs := cmd.Flags()
	if fs.Changed("cell-size") {
		cfg.Output.CellSize = opts.cellSize
	}
	if fs.Changed("output") {
		cfg.Output.Dir = opts.output
	}
	if fs.Changed("filename") {
		cfg.Output.Filename = opts.filename
	}
	if fs.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if opts.title != "" {
		h := bandOrDefault(cfg.HeaderStyle())
		h.TextCenter = opts.title
		cfg.EnableHeader(h)
	}
	if opts.footer != "" {
		f := bandOrDefault(cfg.FooterStyle())
		f.TextRight = opts.footer
		cfg.EnableFooter(f)
	}
}

func bandOrDefault(s *grid.HeaderFooterStyle) grid.HeaderFooterStyle {
	if s == nil {
		return grid.DefaultHeaderFooterStyle()
	}
	return *s
}

// executeWithSpinner runs the sweep, showing a spinner unless debug
// logging is on.
func (c *CLI) executeWithSpinner(ctx context.Context, w io.Writer, runner *pipeline.Runner, opts pipeline.Options,
	src pipeline.ImageSource, sink *pipeline.DirSink) (*pipeline.Result, error) {
	if c.Logger.GetLevel() <= LogDebug {
		return runner.Execute(ctx, opts, src, sink)
	}

	total := opts.TotalPages()
	spinner := newSpinnerWithContext(ctx, w, fmt.Sprintf("Composing page 1/%d...", total))
	spinner.Start()
	tracked := pipeline.SinkFunc(func(ctx context.Context, out pipeline.PageOutput) error {
		if err := sink.WritePage(ctx, out); err != nil {
			return err
		}
		if out.Page < total {
			spinner.SetMessage(fmt.Sprintf("Composing page %d/%d...", out.Page+1, total))
		}
		return nil
	})
	result, err := runner.Execute(ctx, opts, src, tracked)
	if err != nil {
		spinner.StopWithError("Sweep failed")
		return nil, err
	}
	spinner.Stop()
	return result, nil
}
