// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program vsent splits proof scripts into sentences and keeps a checking
// session synchronized with a script as it is edited.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/creachadair/vsent/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vsent",
	Short: "Split and check proof scripts one sentence at a time",
	Long: `Vsent splits proof scripts into the sentences an interactive prover
accepts one at a time, and tracks how much of a script has been checked as
the script is edited.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "vsent.toml",
		"Settings file (.toml, .yaml, .json, .jwcc)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(sentencesCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig reads the settings named by --config and builds a logger
// writing to the error stream of cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Logger(cmd.ErrOrStderr()), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("vsent: %v", err))
		os.Exit(1)
	}
}
