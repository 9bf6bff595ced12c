package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"urworld/internal/bootstrap"
	challengedto "urworld/internal/modules/challenge/dto"
	settingsdto "urworld/internal/modules/settings/dto"
)

func newProfileCmd(vaultPath *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Learner profile commands"}

	profile.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show level, points, streak and badges",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			p, err := app.ProfileCLI.Refresh(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "name: %s\nlevel: %d (%d to next)\npoints: %d (bonus %d)\nstreak: %d\nmodules: %d\nbadges: %d/%d\n",
				p.Name, p.Level, p.PointsToNextLevel, p.TotalPoints, p.BonusPoints, p.Streak, p.CompletedModules, p.Achievements, len(p.Badges))
			for _, s := range p.Progress {
				_, _ = fmt.Fprintf(out, "%s: %d%% (%d/%d)\n", s.Title, s.Percent, s.Completed, s.Total)
			}
			for _, a := range p.Activities {
				_, _ = fmt.Fprintf(out, "%s  %s\n", a.At.Format("2006-01-02 15:04"), a.Title)
			}
			return nil
		}),
	})

	profile.AddCommand(&cobra.Command{
		Use:   "rename <name>",
		Short: "Change the learner's display name",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			p, err := app.ProfileCLI.Rename(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "renamed to %s\n", p.Name)
			return nil
		}),
	})

	profile.AddCommand(&cobra.Command{
		Use:   "report",
		Short: "Write the progress report note into the vault",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			path, err := app.ProfileCLI.Report(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report written: %s\n", path)
			return nil
		}),
	})

	return profile
}

func newLeaderboardCmd(vaultPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank the learner among the sample learners",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			entries, err := app.ProfileCLI.Leaderboard(context.Background())
			if err != nil {
				return err
			}
			for _, e := range entries {
				marker := " "
				if e.IsYou {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s%2d. %s\t%d\tL%d\n", marker, e.Rank, e.Name, e.Points, e.Level)
			}
			return nil
		}),
	}
}

func newChallengeCmd(vaultPath *string) *cobra.Command {
	challenge := &cobra.Command{Use: "challenge", Short: "Daily challenge commands"}

	challenge.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show today's challenge",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			c, err := app.ChallengeCLI.Today(context.Background())
			if err != nil {
				return err
			}
			printChallenge(cmd, c)
			return nil
		}),
	})

	challenge.AddCommand(&cobra.Command{
		Use:   "progress <quiz|perfect|module|speed> [value]",
		Short: "Report challenge progress by hand",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			value := 1
			if len(args) == 2 {
				v, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("value must be a number: %w", err)
				}
				value = v
			}
			c, err := app.ChallengeCLI.Progress(context.Background(), args[0], value)
			if err != nil {
				return err
			}
			printChallenge(cmd, c)
			return nil
		}),
	})

	return challenge
}

func printChallenge(cmd *cobra.Command, c challengedto.ChallengeOutput) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s (%s)\n%s\n", c.Title, c.Date, c.Description)
	if c.Type == challengedto.TypeSpeed {
		_, _ = fmt.Fprintf(out, "target: pass within %ds\n", c.Target)
	} else {
		_, _ = fmt.Fprintf(out, "progress: %d/%d\n", c.Progress, c.Target)
	}
	_, _ = fmt.Fprintf(out, "reward: %d completed=%t\n", c.RewardPoints, c.Completed)
	if c.RewardCredited {
		_, _ = fmt.Fprintf(out, "+%d points credited\n", c.RewardPoints)
	}
}

func newSettingsCmd(vaultPath *string) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Learner settings"}

	settings.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List settings",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			printSettings(cmd, app.SettingsCLI.List(context.Background()))
			return nil
		}),
	})

	settings.AddCommand(&cobra.Command{
		Use:   "set <key> <on|off>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(vaultPath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.SettingsCLI.Set(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			printSettings(cmd, out)
			return nil
		}),
	})

	settings.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		RunE: withApp(vaultPath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.SettingsCLI.Reset(context.Background())
			if err != nil {
				return err
			}
			printSettings(cmd, out)
			return nil
		}),
	})

	return settings
}

func printSettings(cmd *cobra.Command, out settingsdto.SettingsOutput) {
	for _, s := range out.Values {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%t\t(default %t)\n", s.Key, s.Enabled, s.Default)
	}
}
