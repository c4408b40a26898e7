package main

import (
	"fmt"
	"os"

	"github.com/finplan/regime-calculator/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func settingsPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.SettingsPath()
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	path := settingsPath()
	fmt.Fprintf(w, "  Settings file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintln(w, "  Status: loaded")
	} else {
		fmt.Fprintln(w, "  Status: using defaults (no settings file)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [General]")
	fmt.Fprintf(w, "    Output format: %s\n", cfg.General.OutputFormat)
	if cfg.General.RulesFile != "" {
		fmt.Fprintf(w, "    Rules file:    %s\n", cfg.General.RulesFile)
	} else {
		fmt.Fprintln(w, "    Rules file:    built-in FY tables")
	}
	if cfg.General.OutputDir != "" {
		fmt.Fprintf(w, "    Output dir:    %s\n", cfg.General.OutputDir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Server]")
	fmt.Fprintf(w, "    Address: %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "    Metrics: %v\n", cfg.Server.Metrics)
	fmt.Fprintf(w, "    Store:   %s\n", cfg.Store.Path)
	if addr := cfg.RedisAddr(); addr != "" {
		fmt.Fprintf(w, "    Redis:   %s (ttl %s)\n", addr, cfg.CacheTTL())
	} else {
		fmt.Fprintf(w, "    Cache:   in-process (ttl %s)\n", cfg.CacheTTL())
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Tips]")
	if cfg.Tips.MinSaving != nil {
		fmt.Fprintf(w, "    Min saving:   ₹%d\n", *cfg.Tips.MinSaving)
	} else {
		fmt.Fprintln(w, "    Min saving:   from rules")
	}
	if cfg.Tips.MinHeadroom != nil {
		fmt.Fprintf(w, "    Min headroom: ₹%d\n", *cfg.Tips.MinHeadroom)
	} else {
		fmt.Fprintln(w, "    Min headroom: from rules")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := settingsPath()
	if _, err := os.Stat(path); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.SaveSettings(path, config.DefaultSettings()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Wrote %s\n", path)
	return nil
}
