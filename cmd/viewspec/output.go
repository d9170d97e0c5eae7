package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"viewspec/internal/batch"
	"viewspec/internal/diag"
	"viewspec/internal/diagfmt"
	"viewspec/internal/observ"
)

// printDiagnostics writes a bag in the format chosen by --diag-format.
func printDiagnostics(cmd *cobra.Command, out io.Writer, bag *diag.Bag, baseDir string) error {
	flags := cmd.Root().PersistentFlags()
	format, err := flags.GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	pathFlag, err := flags.GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathFlag)
	if !ok {
		return fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", pathFlag)
	}
	bag.Sort()
	switch format {
	case "", "pretty":
		diagfmt.Pretty(out, bag, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			PathMode:  pathMode,
			BaseDir:   baseDir,
			ShowNotes: true,
		})
		return nil
	case "json":
		return diagfmt.JSON(out, bag, diagfmt.JSONOpts{
			PathMode:     pathMode,
			BaseDir:      baseDir,
			IncludeNotes: true,
		})
	default:
		return fmt.Errorf("invalid --diag-format value %q (expected pretty|json)", format)
	}
}

// collect turns per-root failures into diagnostics.
func collect(bag *diag.Bag, results []batch.Result) {
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		d := diag.FromError(r.Err)
		if d.Primary.Node == "" {
			d.Primary.Node = fmt.Sprintf("object %d", r.Root)
		}
		bag.Add(d)
	}
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func maxDiagnostics(flagValue int) int {
	if flagValue <= 0 {
		return 100
	}
	return flagValue
}
