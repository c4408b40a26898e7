package main

import (
	"encoding/json"
	"fmt"

	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/finplan/regime-calculator/internal/output"

	"github.com/spf13/cobra"
)

var tipsCmd = &cobra.Command{
	Use:   "tips <plan-file>",
	Short: "Rank unused deductions by the tax they would save",
	Args:  cobra.ExactArgs(1),
	RunE:  runTips,
}

func init() {
	rootCmd.AddCommand(tipsCmd)
}

func runTips(cmd *cobra.Command, args []string) error {
	results, _, settings, err := runPlanFile(cmd, args[0])
	if err != nil {
		return err
	}

	switch output.NormalizeFormatName(outputFormat(settings)) {
	case "json":
		byPlan := make(map[string][]domain.OptimizationTip, len(results.Plans))
		for _, p := range results.Plans {
			byPlan[p.Name] = p.Tips
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(byPlan)
	case "console":
		fmt.Fprint(cmd.OutOrStdout(), output.RenderTips(results))
		return nil
	default:
		return fmt.Errorf("%w: tips supports console and json", output.ErrUnsupportedFormat)
	}
}
