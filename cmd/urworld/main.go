package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"urworld/internal/bootstrap"
	"urworld/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var vaultPath string

	root := &cobra.Command{
		Use:           "urworld",
		Short:         "Learning modules, quizzes and progress for a markdown vault",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&vaultPath, "vault", ".", "vault path")

	root.AddCommand(newTUICmd(&vaultPath))
	root.AddCommand(newModuleCmd(&vaultPath))
	root.AddCommand(newQuizCmd(&vaultPath))
	root.AddCommand(newProfileCmd(&vaultPath))
	root.AddCommand(newLeaderboardCmd(&vaultPath))
	root.AddCommand(newChallengeCmd(&vaultPath))
	root.AddCommand(newSettingsCmd(&vaultPath))
	root.AddCommand(newExportCmd(&vaultPath))
	root.AddCommand(newResetCmd(&vaultPath))
	root.AddCommand(newReindexCmd(&vaultPath))
	root.AddCommand(newWatchCmd(&vaultPath))
	return root
}

func loadApp(vaultPath string, logOut io.Writer) (*bootstrap.App, error) {
	cfg, err := config.Load(vaultPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logOut)
}

// withApp loads the app for one command and closes it afterwards.
func withApp(vaultPath *string, run func(cmd *cobra.Command, args []string, app *bootstrap.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(*vaultPath, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()
		return run(cmd, args, app)
	}
}

func newTUICmd(vaultPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run urworld terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*vaultPath)
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal, so logs go to a file.
			if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
				return fmt.Errorf("create state dir: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(cfg.StateDir, "urworld.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer func() { _ = logFile.Close() }()

			app, err := bootstrap.New(cfg, logFile)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newExportCmd(vaultPath *string) *cobra.Command {
	var format, dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export profile, progress and settings to a file",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.BackupCLI.Export(context.Background(), format, dir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", out.Format, out.Path)
			return nil
		}),
	}
	cmd.Flags().StringVar(&format, "format", "json", "export format: json|xlsx")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (defaults to the vault)")
	return cmd
}

func newResetCmd(vaultPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all progress, profile and quiz history (settings are kept)",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if !yes {
				return fmt.Errorf("reset deletes all progress; pass --yes to confirm")
			}
			out, err := app.BackupCLI.Clear(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleared: %s\n", strings.Join(out.Cleared, ", "))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newReindexCmd(vaultPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite progress projection from stored progress",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			n, err := app.ProgressCLI.Reindex(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindex completed (%d rows)\n", n)
			return nil
		}),
	}
}

func newWatchCmd(vaultPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow storage changes and roll the daily challenge over at midnight",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Rollover.Start(ctx); err != nil {
				return err
			}
			defer app.Rollover.Stop()
			app.Rollover.Rollover(ctx)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "watching %s (next rollover %s)\n",
				app.Config.StorageDir, app.Rollover.Next().Format("2006-01-02 15:04"))

			for keys := range app.Watcher.Watch(ctx) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "changed: %s\n", strings.Join(keys, ", "))
			}
			return nil
		}),
	}
}
