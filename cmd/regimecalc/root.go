package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/finplan/regime-calculator/internal/calculation"
	"github.com/finplan/regime-calculator/internal/config"
	"github.com/finplan/regime-calculator/internal/domain"

	"github.com/spf13/cobra"
)

var (
	flagRules   string
	flagFormat  string
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "regimecalc",
	Short: "Compare the old and new Indian income tax regimes",
	Long: "Compute income tax under the old and new regimes for one or more plans, " +
		"recommend the cheaper regime and suggest deductions worth claiming.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, config.ErrInvalidInput) {
			fmt.Fprintln(os.Stderr, "Run `regimecalc example` to write a valid plan file.")
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagRules, "rules", "r", "", "YAML rules file (overrides the plan file and settings)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "Output format: console, csv, detailed-csv, html, json or all")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log calculation details to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file (default "+config.SettingsPath()+")")
}

// loadSettings reads the settings file named by --config or the default path.
func loadSettings() (config.Settings, error) {
	return config.LoadSettings(settingsPath())
}

// resolveRules picks the rule tables in order of precedence: --rules, the
// plan file's rules_file, the settings file, then the built-in defaults.
// Tip overrides from settings apply last.
func resolveRules(settings config.Settings, cfg *domain.Configuration, planPath string) (domain.TaxRules, error) {
	path := flagRules
	if path == "" && cfg != nil && cfg.RulesFile != "" {
		path = cfg.RulesFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(planPath), path)
		}
	}
	if path == "" {
		path = settings.General.RulesFile
	}

	rules := config.DefaultRules()
	if path != "" {
		var err error
		if rules, err = config.LoadRules(path); err != nil {
			return domain.TaxRules{}, err
		}
	}
	rules.Tips = settings.ApplyTips(rules.Tips)
	return rules, nil
}

// newEngine builds an engine that logs to stderr when --verbose is set.
func newEngine(rules domain.TaxRules) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngineWithRules(rules)
	if flagVerbose {
		engine.SetLogger(calculation.NewStdLogger(os.Stderr, true))
	}
	return engine
}

// outputFormat returns --format, else the settings default, else console.
func outputFormat(settings config.Settings) string {
	if flagFormat != "" {
		return flagFormat
	}
	if settings.General.OutputFormat != "" {
		return settings.General.OutputFormat
	}
	return "console"
}

// runPlanFile is the shared path of the commands that take a plan file.
func runPlanFile(cmd *cobra.Command, planPath string) (*domain.PlanComparison, domain.TaxRules, config.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, domain.TaxRules{}, settings, err
	}
	cfg, err := config.NewInputParser().LoadFromFile(planPath)
	if err != nil {
		return nil, domain.TaxRules{}, settings, err
	}
	rules, err := resolveRules(settings, cfg, planPath)
	if err != nil {
		return nil, domain.TaxRules{}, settings, err
	}

	results, err := newEngine(rules).RunPlans(cmd.Context(), cfg)
	if err != nil {
		return nil, rules, settings, err
	}
	return results, rules, settings, nil
}
