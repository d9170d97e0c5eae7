package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"viewspec/internal/batch"
	"viewspec/internal/diag"
	"viewspec/internal/fragment"
	"viewspec/internal/observ"
	"viewspec/internal/preload"
	"viewspec/internal/surface"
)

var renderCmd = &cobra.Command{
	Use:   "render [handle...]",
	Short: "Render objects as text",
	Long: `Render displays each object through the root layout and prints the result.
Without handles the items of the root object's main collection are rendered.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("layout", "", "root layout (default: [render].root_layout)")
	renderCmd.Flags().Int("width", 0, "wrap column (default: [render].width)")
	renderCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	renderCmd.Flags().Int("max-lazy", 0, "cap items shown from lazy collections (0=all)")
	renderCmd.Flags().Bool("preload", false, "analyze the layout and warm every root before rendering")
	renderCmd.Flags().String("ui", string(uiModeAuto), "progress UI (auto|on|off)")
}

func runRender(cmd *cobra.Command, args []string) error {
	layout, err := cmd.Flags().GetString("layout")
	if err != nil {
		return fmt.Errorf("failed to get layout flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxLazy, err := cmd.Flags().GetInt("max-lazy")
	if err != nil {
		return fmt.Errorf("failed to get max-lazy flag: %w", err)
	}
	withPreload, err := cmd.Flags().GetBool("preload")
	if err != nil {
		return fmt.Errorf("failed to get preload flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	timer := observ.NewTimer()
	loadIdx := timer.Begin("load")
	ws, err := loadWorkspace(cmd)
	timer.End(loadIdx, "")
	if err != nil {
		return err
	}
	roots, err := ws.roots(args)
	if err != nil {
		return err
	}
	if width == 0 {
		width = ws.cfg.Render.Width
	}
	if jobs == 0 {
		jobs = ws.cfg.Batch.Jobs
	}
	factory, err := ws.interpreters(cmd, layout)
	if err != nil {
		return err
	}

	opts := batch.Options{
		NewInterpreter: factory,
		Frag:           fragment.Root,
		Jobs:           jobs,
		Mode:           batch.ModeTerminal,
		Terminal: surface.TerminalOptions{
			Width:   width,
			Color:   !color.NoColor,
			MaxLazy: maxLazy,
		},
	}

	if withPreload && len(roots) > 0 {
		in, err := factory()
		if err != nil {
			return err
		}
		analyzeIdx := timer.Begin("analyze")
		plan := in.AnalyzeFragment(ws.db.Store.TypeOf(roots[0]), fragment.Root)
		_, rels := plan.Size()
		timer.EndItems(analyzeIdx, rels, "")
		opts.Warm = &batch.Warmer{Reader: ws.db.Store, Kinds: ws.db.Schema, Plan: plan}
	}

	renderIdx := timer.Begin("render")
	var results []batch.Result
	if shouldUseTUI(mode, len(roots)) && !quiet {
		labels := make([]string, len(roots))
		for i, h := range roots {
			labels[i] = fmt.Sprintf("%d", h)
		}
		results, err = runBatchWithUI(cmd.Context(), "rendering", labels, roots, opts)
	} else {
		results, err = batch.Render(cmd.Context(), roots, opts)
	}
	timer.EndItems(renderIdx, len(roots), "")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if _, err := fmt.Fprint(out, r.Output); err != nil {
			return err
		}
	}

	bag := diag.NewBag(maxDiagnostics(maxDiag))
	collect(bag, results)
	if bag.Len() > 0 {
		if err := printDiagnostics(cmd, os.Stderr, bag, ws.cfg.Root); err != nil {
			return err
		}
	}
	if showTimings {
		printTimings(os.Stderr, timer)
	}
	if bag.HasErrors() {
		return fmt.Errorf("%d of %d objects failed to render", bag.Len(), len(roots))
	}
	return nil
}

// plainSize reports a plan's size the way analyze prints it.
func plainSize(plan *preload.Info) string {
	fields, rels := plan.Size()
	return fmt.Sprintf("%d fields, %d relationships, depth %d, vector depth %d",
		fields, rels, plan.Depth(), plan.VectorDepth())
}
