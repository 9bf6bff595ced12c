package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"urworld/internal/bootstrap"
	progressdto "urworld/internal/modules/progress/dto"
	quizdto "urworld/internal/modules/quiz/dto"
)

func newModuleCmd(vaultPath *string) *cobra.Command {
	module := &cobra.Command{Use: "module", Short: "Learning module commands"}

	var subject string
	list := &cobra.Command{
		Use:   "list",
		Short: "List modules with their lock and completion state",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			modules := app.ProgressCLI.List(context.Background(), subject)
			if len(modules) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no modules")
				return nil
			}
			for _, m := range modules {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", m.ModuleID, moduleState(m), m.Title, m.QuizID)
			}
			return nil
		}),
	}
	list.Flags().StringVar(&subject, "subject", "", "only list one subject")

	read := &cobra.Command{
		Use:   "read <module-id>",
		Short: "Mark a module as read, opening its quiz",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.ProgressCLI.Read(context.Background(), args[0])
			if err != nil {
				return err
			}
			if out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "marked read: %s\n", out.Title)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "already read: %s\n", out.Title)
			}
			return nil
		}),
	}

	status := &cobra.Command{
		Use:   "status <module-id>",
		Short: "Show one module's progress",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			m := app.ProgressCLI.Status(context.Background(), args[0])
			if !m.Known {
				return fmt.Errorf("unknown module %q", args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "module: %s\ntitle: %s\nsubject: %s\nstate: %s\nquiz: %s (unlocked=%t completed=%t best=%d%%)\n",
				m.ModuleID, m.Title, m.Subject, moduleState(m), m.QuizID, m.QuizUnlocked, m.QuizCompleted, m.BestScore)
			return nil
		}),
	}

	module.AddCommand(list, read, status)
	return module
}

func moduleState(m progressdto.ModuleStatusOutput) string {
	switch {
	case m.FullyCompleted:
		return "completed"
	case m.Read:
		return "read"
	case m.Unlocked:
		return "unlocked"
	default:
		return "locked"
	}
}

func newQuizCmd(vaultPath *string) *cobra.Command {
	quiz := &cobra.Command{Use: "quiz", Short: "Take module quizzes"}

	quiz.AddCommand(&cobra.Command{
		Use:   "start <quiz-id>",
		Short: "Start or resume a quiz attempt",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			view, err := app.QuizCLI.Start(context.Background(), args[0])
			if err != nil {
				return err
			}
			if view.Resumed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "resuming attempt "+view.AttemptID)
			}
			printQuestion(cmd.OutOrStdout(), view)
			return nil
		}),
	})

	quiz.AddCommand(&cobra.Command{
		Use:   "answer <quiz-id> <option>",
		Short: "Answer the current question (options are numbered from 1)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			option, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("option must be a number: %w", err)
			}
			view, err := app.QuizCLI.Answer(context.Background(), args[0], option)
			if err != nil {
				return err
			}
			if view.Ignored {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "question already answered")
			}
			printQuestion(cmd.OutOrStdout(), view)
			return nil
		}),
	})

	quiz.AddCommand(&cobra.Command{
		Use:   "next <quiz-id>",
		Short: "Move to the next question, finishing the quiz after the last one",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			step, err := app.QuizCLI.Next(context.Background(), args[0])
			if err != nil {
				return err
			}
			if step.Completed {
				printResult(cmd.OutOrStdout(), step.Result)
				return nil
			}
			printQuestion(cmd.OutOrStdout(), step.Question)
			return nil
		}),
	})

	quiz.AddCommand(&cobra.Command{
		Use:   "show <quiz-id>",
		Short: "Show the current question of a running attempt",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			view, err := app.QuizCLI.Show(context.Background(), args[0])
			if err != nil {
				return err
			}
			printQuestion(cmd.OutOrStdout(), view)
			return nil
		}),
	})

	quiz.AddCommand(&cobra.Command{
		Use:   "abandon <quiz-id>",
		Short: "Drop a running attempt without recording a score",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			if err := app.QuizCLI.Abandon(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "attempt abandoned")
			return nil
		}),
	})

	quiz.AddCommand(&cobra.Command{
		Use:   "history <quiz-id>",
		Short: "Show the latest attempts of a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.QuizCLI.History(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(out.Entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no attempts")
				return nil
			}
			for _, e := range out.Entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d%%\t%d/%d\t%ds\n", e.Date.Format("2006-01-02 15:04"), e.Score, e.Correct, e.Total, e.Seconds)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "best: %d%%\n", out.Best)
			return nil
		}),
	})

	quiz.AddCommand(&cobra.Command{
		Use:   "record <quiz-id> <score>",
		Short: "Record a quiz score directly (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			score, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("score must be a number: %w", err)
			}
			out, err := app.ProgressCLI.Record(context.Background(), args[0], score)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s score=%d best=%d passed=%t\n", out.QuizID, out.Score, out.BestScore, out.Passed)
			if out.UnlockedModuleID != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s\n", out.UnlockedModuleID)
			}
			return nil
		}),
	})

	return quiz
}

func printQuestion(w io.Writer, q quizdto.QuestionView) {
	_, _ = fmt.Fprintf(w, "%s  question %d/%d\n%s\n", q.QuizTitle, q.Number, q.Total, q.Prompt)
	for i, opt := range q.Options {
		marker := " "
		if q.Revealed {
			switch {
			case i == q.CorrectAnswer:
				marker = "✔"
			case i == q.Chosen:
				marker = "✘"
			}
		}
		_, _ = fmt.Fprintf(w, "%s %d. %s\n", marker, i+1, opt)
	}
	if q.Revealed {
		verdict := "wrong"
		if q.Correct {
			verdict = "correct"
		}
		_, _ = fmt.Fprintln(w, verdict)
		if q.Explanation != "" {
			_, _ = fmt.Fprintln(w, q.Explanation)
		}
	}
	if q.ShowTimer {
		_, _ = fmt.Fprintf(w, "elapsed: %ds\n", q.ElapsedSeconds)
	}
}

func printResult(w io.Writer, r quizdto.ResultOutput) {
	_, _ = fmt.Fprintf(w, "%s finished: %d%% (%d/%d) stars=%d rating=%s\n", r.QuizTitle, r.Score, r.CorrectCount, r.Total, r.Stars, r.Rating)
	_, _ = fmt.Fprintln(w, r.Message)
	if r.ShowTimer {
		_, _ = fmt.Fprintf(w, "time: %ds\n", r.Seconds)
	}
	if r.UnlockedModuleID != "" {
		_, _ = fmt.Fprintf(w, "unlocked %s\n", r.UnlockedModuleID)
	}
	for _, b := range r.Profile.NewBadges {
		_, _ = fmt.Fprintf(w, "new badge: %s\n", b.Name)
	}
	if r.ChallengeCompleted {
		_, _ = fmt.Fprintf(w, "daily challenge complete: %s (+%d)\n", r.Challenge.Title, r.Challenge.RewardPoints)
	}
	_, _ = fmt.Fprintf(w, "level %d, %d points\n", r.Profile.Level, r.Profile.TotalPoints)
	if r.NotePath != "" {
		_, _ = fmt.Fprintf(w, "note: %s\n", r.NotePath)
	}
}
