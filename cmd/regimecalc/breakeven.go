package main

import (
	"encoding/csv"
	"fmt"

	"github.com/finplan/regime-calculator/internal/output"

	"github.com/spf13/cobra"
)

var breakevenCmd = &cobra.Command{
	Use:   "breakeven <plan-file>",
	Short: "Show the extra deductions at which the old regime matches the new",
	Args:  cobra.ExactArgs(1),
	RunE:  runBreakEven,
}

func init() {
	rootCmd.AddCommand(breakevenCmd)
}

func runBreakEven(cmd *cobra.Command, args []string) error {
	results, _, settings, err := runPlanFile(cmd, args[0])
	if err != nil {
		return err
	}

	switch output.NormalizeFormatName(outputFormat(settings)) {
	case "console":
		fmt.Fprint(cmd.OutOrStdout(), output.RenderBreakEven(results))
		return nil
	case "csv":
		w := csv.NewWriter(cmd.OutOrStdout())
		if err := w.Write([]string{"Plan", "OldTax", "NewTax", "Reachable", "AdditionalDeductions", "OldTaxAtBreakEven"}); err != nil {
			return err
		}
		for _, p := range results.Plans {
			be := p.BreakEven
			if err := w.Write([]string{
				p.Name,
				p.Comparison.Old.TotalTax.StringFixed(0),
				be.NewTax.StringFixed(0),
				fmt.Sprint(be.Reachable),
				be.AdditionalDeductions.StringFixed(0),
				be.OldTaxAtBreakEven.StringFixed(0),
			}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	default:
		return fmt.Errorf("%w: breakeven supports console and csv", output.ErrUnsupportedFormat)
	}
}
