package main

import (
	"fmt"
	"os"

	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/finplan/regime-calculator/internal/output"
	"github.com/finplan/regime-calculator/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagOutputDir string
	flagSaveUser  string
)

var compareCmd = &cobra.Command{
	Use:   "compare <plan-file>",
	Short: "Compare both regimes for every plan in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Write report files to this directory instead of stdout")
	compareCmd.Flags().StringVar(&flagSaveUser, "save", "", "Store the recommended plan under this user ID")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	results, rules, settings, err := runPlanFile(cmd, args[0])
	if err != nil {
		return err
	}
	results.Assumptions = output.GenerateAssumptions(rules)
	format := outputFormat(settings)

	dir := flagOutputDir
	if dir == "" {
		dir = settings.General.OutputDir
	}
	if dir != "" || output.NormalizeFormatName(format) == "all" {
		if dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		files, err := output.GenerateReport(results, format, dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(cmd.ErrOrStderr(), "  Wrote %s\n", f)
		}
	} else {
		f := output.GetFormatterByName(format)
		if f == nil {
			return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
		}
		data, err := f.Format(results)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	if flagSaveUser != "" {
		return saveRecommended(cmd, settings.Store.Path, rules.FinancialYear, results)
	}
	return nil
}

// saveRecommended stores the recommended plan summary as the user's current plan.
func saveRecommended(cmd *cobra.Command, dbPath, financialYear string, results *domain.PlanComparison) error {
	var summary domain.PlanSummary
	for _, p := range results.Plans {
		if p.Name == results.Recommended {
			summary = p
			break
		}
	}

	plans, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer plans.Close()

	snap, err := plans.Save(cmd.Context(), flagSaveUser, financialYear, summary)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "  Saved plan %q for %s (snapshot %s)\n", summary.Name, snap.UserID, snap.ID)
	return nil
}
