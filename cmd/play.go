package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	tuiapp "github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/app"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/logging"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screen"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive trainer",
	Long: "Open the full-screen trainer with practice sessions, mock exams and\n" +
		"topic practice. Use `train` or `exam` for a plain line-based session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		prefs, err := a.store.SettingsRepo().LoadSettings(ctx)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}

		env := &screen.Env{
			Bank:      a.bank,
			Progress:  a.progress,
			Stats:     a.store.StatsRepo(),
			Settings:  prefs,
			NewRunner: func() *session.Runner { return a.newRunner() },
		}
		if a.cfg.LLM.Enabled() {
			env.Explainer = a.explainer(ctx)
		}

		// stderr output would tear the alt screen
		logs := io.Discard
		if f, err := os.OpenFile(filepath.Join(os.TempDir(), "drivesmart.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
			defer f.Close()
			logs = f
		}
		prev := slog.Default()
		slog.SetDefault(logging.New(a.cfg.Log.Level, a.cfg.Log.Format, logs))
		defer slog.SetDefault(prev)

		return tuiapp.Run(env)
	},
}
