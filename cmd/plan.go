package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/spacedrep"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the next practice session without answering",
	Long: "Show the questions the next practice session would pick, with their\n" +
		"review priority and status. Progress is not changed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		all, _ := cmd.Flags().GetBool("all")

		a, err := openApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		if count <= 0 {
			prefs, err := a.store.SettingsRepo().LoadSettings(ctx)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			count = prefs.QuestionsPerSession
		}
		progress, err := a.progress.Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		now := time.Now()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-4s  %-10s  %-16s  %8s  %-9s  %s\n", "#", "ID", "Topic", "Priority", "Status", "Next review")
		fmt.Fprintln(out, strings.Repeat("─", 80))

		ranked := spacedrep.Rank(a.bank.Questions(), progress, topic, now)
		if all {
			for i, s := range ranked {
				fmt.Fprintln(out, planRow(i+1, s, progress, now))
			}
			return nil
		}

		picked := spacedrep.SelectSessionAt(a.bank.Questions(), progress, count, topic, now, nil)
		for i, q := range picked {
			s := spacedrep.Scored{Question: q, Priority: spacedrep.Priority(q, progress, now)}
			fmt.Fprintln(out, planRow(i+1, s, progress, now))
		}
		fmt.Fprintf(out, "\n%d of %d questions picked\n", len(picked), len(ranked))
		return nil
	},
}

func init() {
	planCmd.Flags().String("topic", "", "Only consider questions of this topic")
	planCmd.Flags().Int("count", 0, "Number of questions (default from settings)")
	planCmd.Flags().Bool("all", false, "Show the full ranking instead of a sample")
}

func planRow(n int, s spacedrep.Scored, progress mastery.Progress, now time.Time) string {
	next := "-"
	if r, ok := progress[s.Question.ID]; ok {
		next = r.NextReviewDate.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%-4d  %-10s  %-16s  %8.1f  %-9s  %s", n, s.Question.ID, s.Question.TopicID,
		s.Priority, spacedrep.Status(s.Question.ID, progress, now), next)
}
