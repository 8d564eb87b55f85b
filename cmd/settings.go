package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change learner settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		repo := a.store.SettingsRepo()
		s, err := repo.LoadSettings(ctx)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}

		changed := false
		if cmd.Flags().Changed("questions") {
			s.QuestionsPerSession, _ = cmd.Flags().GetInt("questions")
			changed = true
		}
		if cmd.Flags().Changed("timer") {
			s.TimerEnabled, _ = cmd.Flags().GetBool("timer")
			changed = true
		}
		if cmd.Flags().Changed("sound") {
			s.SoundEnabled, _ = cmd.Flags().GetBool("sound")
			changed = true
		}
		if changed {
			if err := repo.SaveSettings(ctx, s); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Questions per session: %d\n", s.QuestionsPerSession)
		fmt.Fprintf(out, "Exam timer:            %s\n", onOff(s.TimerEnabled))
		fmt.Fprintf(out, "Sound:                 %s\n", onOff(s.SoundEnabled))
		return nil
	},
}

func init() {
	settingsCmd.Flags().Int("questions", 0, "Questions per practice session (10, 20 or 30)")
	settingsCmd.Flags().Bool("timer", true, "Show the exam countdown")
	settingsCmd.Flags().Bool("sound", true, "Ring the terminal bell on wrong answers")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
