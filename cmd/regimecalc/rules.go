package main

import (
	"fmt"
	"os"

	"github.com/finplan/regime-calculator/internal/config"
	"github.com/finplan/regime-calculator/internal/output"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagRulesWrite string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the rule tables in effect as YAML",
	Long: "Print the slab tables, rebate, cess and tip thresholds that comparisons use. " +
		"The output is a valid rules file; edit it and pass it back with --rules.",
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVarP(&flagRulesWrite, "write", "w", "", "Write the rules to this file instead of stdout")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	rules, err := resolveRules(settings, nil, "")
	if err != nil {
		return err
	}
	if err := config.ValidateRules(rules); err != nil {
		return err
	}

	data, err := yaml.Marshal(rules)
	if err != nil {
		return err
	}
	if flagRulesWrite != "" {
		if err := os.WriteFile(flagRulesWrite, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "  Wrote %s\n", flagRulesWrite)
		return nil
	}

	w := cmd.OutOrStdout()
	for _, a := range output.GenerateAssumptions(rules) {
		fmt.Fprintf(w, "# %s\n", a)
	}
	_, err = w.Write(data)
	return err
}
