package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"viewspec/internal/fragment"
	"viewspec/internal/preload"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the data a layout needs",
	Long: `Analyze walks a layout without reading data and prints every field and
relationship it would touch for objects of the given class.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("class", "", "class to analyze (default: class of the root object)")
	analyzeCmd.Flags().String("layout", "", "layout to analyze (default: [render].root_layout)")
	analyzeCmd.Flags().String("out", "", "write the plan as msgpack to this file")
	analyzeCmd.Flags().Bool("dump", false, "dump the raw plan structure")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	class, err := cmd.Flags().GetString("class")
	if err != nil {
		return fmt.Errorf("failed to get class flag: %w", err)
	}
	layout, err := cmd.Flags().GetString("layout")
	if err != nil {
		return fmt.Errorf("failed to get layout flag: %w", err)
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	dump, err := cmd.Flags().GetBool("dump")
	if err != nil {
		return fmt.Errorf("failed to get dump flag: %w", err)
	}

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	typ, err := ws.typeOf(class)
	if err != nil {
		return err
	}
	factory, err := ws.interpreters(cmd, layout)
	if err != nil {
		return err
	}
	in, err := factory()
	if err != nil {
		return err
	}

	plan := in.AnalyzeFragment(typ, fragment.Root)

	out := cmd.OutOrStdout()
	if dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(out, plan)
	} else {
		fmt.Fprintf(out, "%s (%s)\n", ws.db.Schema.TypeName(typ), plainSize(plan))
		fmt.Fprint(out, plan.Format(ws.fieldName))
	}

	if outPath == "" {
		return nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	w := bufio.NewWriter(f)
	if err := preload.Encode(w, plan); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
