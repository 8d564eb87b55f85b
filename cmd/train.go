package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/explain"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/settings"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/theme"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Start a practice session",
	Long: "Start a practice session. Questions are picked by review priority:\n" +
		"unseen and overdue questions first, with some randomness.",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		return startSession(cmd, session.Config{Mode: session.ModePractice, Count: count, TopicID: topic})
	},
}

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Take a timed mock exam",
	Long: fmt.Sprintf("Take a mock exam: %d questions from all topics in %d minutes.\n"+
		"You pass with %d or more correct answers.",
		session.ExamQuestionCount, int(session.ExamTimeLimit/time.Minute), session.ExamPassThreshold),
	RunE: func(cmd *cobra.Command, args []string) error {
		return startSession(cmd, session.Config{Mode: session.ModeExam})
	},
}

func init() {
	trainCmd.Flags().String("topic", "", "Only practice questions of this topic")
	trainCmd.Flags().Int("count", 0, "Number of questions (default from settings)")
}

func startSession(cmd *cobra.Command, cfg session.Config) error {
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
	if cfg.Count <= 0 {
		cfg.Count = prefs.QuestionsPerSession
	}
	if cfg.TopicID != "" {
		if _, err := a.bank.Topic(cfg.TopicID); err != nil {
			return fmt.Errorf("%w: %s (see `drivesmart topics`)", err, cfg.TopicID)
		}
	}

	sum, err := runSession(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), a.newRunner(),
		a.explainer(ctx), cfg, prefs)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), sum)
	return nil
}

// runSession plays one session over a line-based terminal: each question
// is printed with numbered options and answered by typing a number.
// Typing q ends the session early.
func runSession(ctx context.Context, in io.Reader, out io.Writer, r *session.Runner,
	ex *explain.Service, cfg session.Config, prefs settings.Settings) (session.Summary, error) {
	state, err := r.Start(ctx, cfg)
	if err != nil {
		return session.Summary{}, err
	}
	now := r.Clock
	if now == nil {
		now = time.Now
	}

	exam := state.Plan.Mode == session.ModeExam
	lines := bufio.NewScanner(in)
	total := len(state.Plan.Questions)

	for {
		q, ok := r.Current()
		if !ok {
			break
		}
		if state.Expired(now()) {
			fmt.Fprintln(out, theme.Incorrect.Render("Time is up."))
			break
		}

		header := fmt.Sprintf("Question %d/%d · %s", state.Index+1, total, q.TopicID)
		if exam && prefs.TimerEnabled {
			header += "  " + theme.Timer(int(state.TimeLeft(now())/time.Second))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render(header))
		fmt.Fprintln(out, q.Text)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}

		choice, quit := readChoice(lines, out, len(q.Options))
		if quit {
			break
		}

		res, err := r.Answer(ctx, choice)
		if err != nil {
			return session.Summary{}, err
		}
		if !res.Correct && prefs.SoundEnabled {
			fmt.Fprint(out, "\a")
		}
		if !exam {
			fmt.Fprintln(out, theme.Mark(res.Correct))
			if !res.Correct {
				fmt.Fprintf(out, "Correct answer: %d) %s\n", res.CorrectIndex+1, q.CorrectOption())
			}
			text, err := ex.Explain(ctx, q, choice)
			if err != nil {
				slog.Warn("explanation unavailable", "question_id", q.ID, "error", err)
			}
			if text != "" {
				fmt.Fprintln(out, theme.Hint.Render(text))
			}
		}
		if !r.Next() {
			break
		}
	}
	return r.Finish(ctx)
}

// readChoice reads lines until one holds an option number. It returns the
// 0-based choice, or quit on q or end of input.
func readChoice(lines *bufio.Scanner, out io.Writer, options int) (choice int, quit bool) {
	for {
		fmt.Fprintf(out, "Your answer (1-%d, q to quit): ", options)
		if !lines.Scan() {
			fmt.Fprintln(out)
			return 0, true
		}
		text := strings.TrimSpace(lines.Text())
		if strings.EqualFold(text, "q") || strings.EqualFold(text, "quit") {
			return 0, true
		}
		n, err := strconv.Atoi(text)
		if err == nil && n >= 1 && n <= options {
			return n - 1, false
		}
		fmt.Fprintf(out, "Enter a number between 1 and %d.\n", options)
	}
}

func printSummary(out io.Writer, sum session.Summary) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Title.Render("Session summary"))
	if sum.Asked == 0 {
		fmt.Fprintln(out, "No questions answered.")
		return
	}
	fmt.Fprintf(out, "Answered: %d/%d   Correct: %d   Wrong: %d   Accuracy: %.0f%%\n",
		sum.Asked, sum.Planned, sum.Correct, sum.Wrong, sum.Accuracy()*100)
	for _, t := range sum.Topics {
		fmt.Fprintf(out, "  %-16s %d/%d\n", t.TopicID, t.Correct, t.Attempted)
	}
	fmt.Fprintf(out, "Time: %s\n", sum.Duration.Round(time.Second))
	if sum.Mode == session.ModeExam {
		if sum.Passed {
			fmt.Fprintln(out, theme.Correct.Render(fmt.Sprintf("PASSED (%d/%d)", sum.Correct, session.ExamQuestionCount)))
		} else {
			fmt.Fprintln(out, theme.Incorrect.Render(fmt.Sprintf("FAILED (%d/%d, need %d)",
				sum.Correct, session.ExamQuestionCount, session.ExamPassThreshold)))
		}
	}
}
