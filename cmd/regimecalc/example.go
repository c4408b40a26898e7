package main

import (
	"fmt"
	"os"

	"github.com/finplan/regime-calculator/internal/config"
	"github.com/finplan/regime-calculator/internal/output"

	"github.com/spf13/cobra"
)

var flagForce bool

var exampleCmd = &cobra.Command{
	Use:   "example [file]",
	Short: "Write an example plan file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExample,
}

func init() {
	exampleCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, args []string) error {
	path := "example_plan.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.NewInputParser().CreateExampleConfiguration()
	if err := output.SaveConfiguration(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Wrote %s with %d plans\n", path, len(cfg.Plans))
	fmt.Fprintf(cmd.OutOrStdout(), "  Run `regimecalc compare %s` to compare them.\n", path)
	return nil
}
