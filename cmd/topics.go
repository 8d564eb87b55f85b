package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/theme"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics with mastery progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		progress, err := a.progress.Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s  %-28s  %-20s  %5s  %-8s  %s\n", "ID", "Name", "Mastery", "", "Level", "Answered")
		fmt.Fprintln(out, strings.Repeat("─", 92))

		summaries := mastery.AllTopics(a.bank.TopicIDs(), a.bank.Questions(), progress)
		for _, s := range summaries {
			name := s.TopicID
			if t, err := a.bank.Topic(s.TopicID); err == nil && t.Name != "" {
				name = t.Name
			}
			if len(name) > 28 {
				name = name[:25] + "..."
			}
			fmt.Fprintf(out, "%-16s  %-28s  %s  %4d%%  %-8s  %d/%d\n",
				s.TopicID, name, theme.Bar(s.Percentage, 20), s.Percentage,
				theme.LevelStyle(s.Level()).Render(string(s.Level())), s.Answered, s.Total)
		}

		fmt.Fprintf(out, "\n%d topics, %d questions\n", len(summaries), a.bank.Len())
		return nil
	},
}
