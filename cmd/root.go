package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/config"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/logging"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "drivesmart",
	Short: "Driving theory exam trainer",
	Long: "DriveSmart prepares learners for the Uzbekistan driving theory exam with\n" +
		"spaced-repetition practice sessions and timed mock exams.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		slog.SetDefault(logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr))
		appConfig = cfg
		return nil
	},
}

// appConfig is the configuration resolved before any subcommand runs.
var appConfig *config.Config

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides DRIVESMART_DB)")
	pf.String("bank", "", "Question bank file or directory (overrides DRIVESMART_BANK)")
	pf.String("backend", "", "Progress backend: sqlite or redis (overrides DRIVESMART_BACKEND)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd, trainCmd, examCmd, planCmd, topicsCmd, statsCmd,
		resetCmd, settingsCmd, importCmd, llmCmd, versionCmd)
}

// applyFlags lets persistent flags override the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Store.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("bank"); v != "" {
		cfg.Bank.Path = v
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Store.Backend = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
}

// resolveDBPath returns the --db / DRIVESMART_DB path, or the default
// XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.Store.DBPath != "" {
		if err := store.EnsureDir(cfg.Store.DBPath); err != nil {
			return "", fmt.Errorf("create database directory: %w", err)
		}
		return cfg.Store.DBPath, nil
	}
	return store.DefaultDBPath()
}
