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
)

var checkCmd = &cobra.Command{
	Use:   "check [handle...]",
	Short: "Display objects without output and report specification errors",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("layout", "", "root layout (default: [render].root_layout)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	layout, err := cmd.Flags().GetString("layout")
	if err != nil {
		return fmt.Errorf("failed to get layout flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
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

	bag := diag.NewBag(maxDiagnostics(maxDiag))
	timer := observ.NewTimer()

	var ws *workspace
	if err := timer.Measure("load", func() error {
		ws, err = loadWorkspace(cmd)
		return err
	}); err != nil {
		bag.Add(diag.FromError(err))
		if perr := printDiagnostics(cmd, os.Stderr, bag, ""); perr != nil {
			return perr
		}
		return fmt.Errorf("load failed")
	}
	roots, err := ws.roots(args)
	if err != nil {
		return err
	}
	if jobs == 0 {
		jobs = ws.cfg.Batch.Jobs
	}
	factory, err := ws.interpreters(cmd, layout)
	if err != nil {
		return err
	}

	// the analyzer never fails; its skips go to the trace
	var planSize string
	if len(roots) > 0 {
		in, err := factory()
		if err != nil {
			return err
		}
		analyzeIdx := timer.Begin("analyze")
		planSize = plainSize(in.AnalyzeFragment(ws.db.Store.TypeOf(roots[0]), fragment.Root))
		timer.End(analyzeIdx, "")
	}

	idx := timer.Begin("check")
	results, err := batch.Render(cmd.Context(), roots, batch.Options{
		NewInterpreter: factory,
		Frag:           fragment.Root,
		Jobs:           jobs,
		Mode:           batch.ModeCheck,
	})
	timer.EndItems(idx, len(roots), "")
	if err != nil {
		return err
	}
	collect(bag, results)
	bag.Sort()
	bag.Dedup()

	deps := 0
	var slowest batch.Result
	for _, r := range results {
		deps += r.Deps
		if r.Elapsed > slowest.Elapsed {
			slowest = r
		}
	}

	if bag.Len() > 0 {
		if err := printDiagnostics(cmd, os.Stderr, bag, ws.cfg.Root); err != nil {
			return err
		}
	}
	if !quiet {
		status := color.New(color.FgGreen, color.Bold).Sprint("ok")
		if bag.HasErrors() {
			status = color.New(color.FgRed, color.Bold).Sprint("failed")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d objects, %d dependencies", status, len(roots), deps)
		if slowest.Root != 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", slowest %d (%.1f ms)", slowest.Root, toMillis(slowest.Elapsed))
		}
		fmt.Fprintln(cmd.OutOrStdout())
		if planSize != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "plan: %s\n", planSize)
		}
	}
	if showTimings {
		printTimings(os.Stderr, timer)
	}
	if bag.HasErrors() {
		return fmt.Errorf("%d diagnostics", bag.Len())
	}
	return nil
}
