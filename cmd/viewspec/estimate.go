package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"viewspec/internal/fragment"
	"viewspec/internal/height"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [handle...]",
	Short: "Estimate the rendered height of objects",
	RunE:  runEstimate,
}

func init() {
	estimateCmd.Flags().String("layout", "", "root layout (default: [render].root_layout)")
	estimateCmd.Flags().Int("width", 0, "available width (default: [render].width)")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	layout, err := cmd.Flags().GetString("layout")
	if err != nil {
		return fmt.Errorf("failed to get layout flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}

	ws, err := loadWorkspace(cmd)
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
	factory, err := ws.interpreters(cmd, layout)
	if err != nil {
		return err
	}
	in, err := factory()
	if err != nil {
		return err
	}

	est := height.NewEstimator(height.Interpreted{D: in, LineHeight: ws.cfg.Estimate.LineHeight})
	out := cmd.OutOrStdout()
	total := 0
	for _, h := range roots {
		lines, err := est.EstimateHeight(h, fragment.Root, width)
		if err != nil {
			return fmt.Errorf("object %d: %w", h, err)
		}
		total += lines
		fmt.Fprintf(out, "%d\t%d\n", h, lines)
	}
	fmt.Fprintf(out, "total\t%d\t(%d measured, estimate %d)\n", total, est.Measurements(), est.Estimate())
	return nil
}
