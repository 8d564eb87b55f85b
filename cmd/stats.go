package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/spacedrep"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		days, _ := cmd.Flags().GetInt("days")
		recent, _ := cmd.Flags().GetInt("recent")

		a, err := openApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.store.StatsRepo().LoadStats(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		progress, err := a.progress.Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		now := time.Now()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, theme.Title.Render("Overall"))
		fmt.Fprintf(out, "  Questions answered: %d\n", st.TotalQuestions)
		fmt.Fprintf(out, "  Correct:            %d (%.0f%%)\n", st.CorrectAnswers, st.CorrectRate())
		fmt.Fprintf(out, "  Streak:             %d day(s)\n", st.StreakDays)
		fmt.Fprintf(out, "  Questions seen:     %d/%d\n", len(progress), a.bank.Len())

		summaries := mastery.AllTopics(a.bank.TopicIDs(), a.bank.Questions(), progress)
		if weak := mastery.WeakTopics(summaries); len(weak) > 0 {
			names := make([]string, len(weak))
			for i, s := range weak {
				names[i] = fmt.Sprintf("%s (%d%%)", s.TopicID, s.Percentage)
			}
			fmt.Fprintf(out, "  Weak topics:        %s\n", strings.Join(names, ", "))
		}
		if strong := mastery.StrongTopics(summaries); len(strong) > 0 {
			fmt.Fprintf(out, "  Strong topics:      %d\n", len(strong))
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render("Reviews"))
		fmt.Fprintf(out, "  Due now: %d\n", len(spacedrep.DueQuestions(progress, now)))
		for i, n := range spacedrep.Forecast(progress, now, days) {
			label := now.AddDate(0, 0, i).Format("Mon 02 Jan")
			if i == 0 {
				label = "Today"
			}
			fmt.Fprintf(out, "  %-10s  %3d\n", label, n)
		}

		sessions, err := a.store.EventRepo().QuerySessionSummaries(ctx, store.QueryOpts{Limit: recent})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render("Recent sessions"))
		for _, s := range sessions {
			result := ""
			if session.Mode(s.Mode) == session.ModeExam {
				result = theme.Incorrect.Render("failed")
				if s.Passed {
					result = theme.Correct.Render("passed")
				}
			}
			fmt.Fprintf(out, "  %s  %-8s  %2d/%-2d  %5s  %s\n",
				s.Timestamp.Local().Format("2006-01-02 15:04"), s.Mode, s.CorrectAnswers, s.QuestionsServed,
				(time.Duration(s.DurationSecs) * time.Second).String(), result)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("days", 7, "Days of review forecast to show")
	statsCmd.Flags().Int("recent", 5, "Number of recent sessions to show")
}
