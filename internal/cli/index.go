package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xyplot/pkg/pipeline"
	"github.com/matzehuels/xyplot/pkg/sweep"
)

// indexOpts holds the flags of the index command.
type indexOpts struct {
	sweep    sweepFlags
	at       int
	pages    bool
	jsonMode bool
}

// indexCommand creates the index command.
func (c *CLI) indexCommand() *cobra.Command {
	var opts indexOpts

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Print where each sweep iteration lands",
		Long: `Print the page and cell of every sweep iteration, or of a single one
with --at. With --pages, print the shape of every page instead.`,
		Example: `  xyplot index --dim1 "a,b,c" --dim2 "1,2" --max-dim1 2
  xyplot index --dim1-range 1:100:1 --max-dim1 10 --pages
  xyplot index --dim1 "a,b,c" --at 2 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIndex(cmd, opts)
		},
	}

	opts.sweep.register(cmd)
	cmd.Flags().IntVar(&opts.at, "at", -1, "print only this global index")
	cmd.Flags().BoolVar(&opts.pages, "pages", false, "print page shapes instead of iterations")
	cmd.Flags().BoolVar(&opts.jsonMode, "json", false, "print JSON")

	return cmd
}

func (c *CLI) runIndex(cmd *cobra.Command, opts indexOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts.sweep.apply(cmd, cfg)
	dims, err := pipeline.ParseDims(cfg.Sweep.Dim1, cfg.Sweep.Dim2, cfg.Sweep.MaxDim1PerPage, cfg.Sweep.MaxDim2PerPage)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if opts.pages {
		shapes, err := pipeline.PlanPages(dims)
		if err != nil {
			return err
		}
		if opts.jsonMode {
			return writeJSON(w, shapes)
		}
		printPageShapes(w, shapes)
		return nil
	}

	var records []sweep.Record
	if opts.at >= 0 {
		rec, err := sweep.Index(dims, opts.at)
		if err != nil {
			return err
		}
		records = append(records, rec)
	} else {
		cur, err := sweep.NewCursor(dims)
		if err != nil {
			return err
		}
		for rec, ok := cur.Next(); ok; rec, ok = cur.Next() {
			records = append(records, rec)
		}
	}

	if opts.jsonMode {
		if opts.at >= 0 {
			return writeJSON(w, records[0])
		}
		return writeJSON(w, records)
	}
	if opts.at < 0 {
		printKeyValue(w, "iterations", strconv.Itoa(dims.Total()))
		printKeyValue(w, "pages", strconv.Itoa(dims.TotalPages()))
	}
	printRecords(w, records)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecords(w io.Writer, records []sweep.Record) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%6s  %9s  %7s  %s", "index", "page", "cell", "values")))
	for _, r := range records {
		page := fmt.Sprintf("%d/%d", r.CurrentPage(), r.TotalPages)
		cell := fmt.Sprintf("%d,%d", r.Dim1.IndexInPage, r.Dim2.IndexInPage)
		values := StyleValue.Render(r.Dim1.Value.String()) + StyleDim.Render(" × ") + StyleValue.Render(r.Dim2.Value.String())
		line := fmt.Sprintf("%6s  %9s  %7s  %s", StyleNumber.Render(strconv.Itoa(r.Index)), page, cell, values)
		if r.EndsPage() {
			line += " " + StyleHighlight.Render(iconArrow+" page")
		}
		fmt.Fprintln(w, line)
	}
}

func printPageShapes(w io.Writer, shapes []pipeline.PageShape) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%6s  %6s  %9s  %s", "page", "first", "dim1×dim2", "cells")))
	for _, s := range shapes {
		fmt.Fprintf(w, "%6s  %6d  %9s  %d\n",
			StyleNumber.Render(strconv.Itoa(s.Number)), s.FirstIndex, fmt.Sprintf("%d×%d", s.Rows, s.Cols), s.Cells())
	}
}
