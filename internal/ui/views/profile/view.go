package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	challengedto "urworld/internal/modules/challenge/dto"
	profiledto "urworld/internal/modules/profile/dto"
	settingsdto "urworld/internal/modules/settings/dto"
	"urworld/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type ProfilePort interface {
	Refresh(ctx context.Context) (profiledto.ProfileOutput, error)
	Leaderboard(ctx context.Context) ([]profiledto.LeaderboardEntry, error)
}

type ChallengePort interface {
	Today(ctx context.Context) (challengedto.ChallengeOutput, error)
}

type SettingsPort interface {
	List(ctx context.Context) settingsdto.SettingsOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Profile     profiledto.ProfileOutput
	Leaderboard []profiledto.LeaderboardEntry
	Challenge   challengedto.ChallengeOutput
	Settings    settingsdto.SettingsOutput
	Err         error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model shows the learner's profile, the daily challenge, the leaderboard
// and the current settings in one scrollable pane.
type Model struct {
	profile   ProfilePort
	challenge ChallengePort
	settings  SettingsPort
	viewport  viewport.Model
	data      LoadedMsg
	loaded    bool
	width     int
	height    int
}

func New(profile ProfilePort, challenge ChallengePort, settings SettingsPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Padding(1, 2)
	return Model{profile: profile, challenge: challenge, settings: settings, viewport: vp}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

// Reload refreshes the profile (streak included) and everything shown
// next to it.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg LoadedMsg
		msg.Profile, msg.Err = m.profile.Refresh(ctx)
		if msg.Err != nil {
			return msg
		}
		if msg.Leaderboard, msg.Err = m.profile.Leaderboard(ctx); msg.Err != nil {
			return msg
		}
		if msg.Challenge, msg.Err = m.challenge.Today(ctx); msg.Err != nil {
			return msg
		}
		msg.Settings = m.settings.List(ctx)
		return msg
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
		m.viewport.SetContent(m.render())

	case LoadedMsg:
		m.data = msg
		m.loaded = true
		m.viewport.SetContent(m.render())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) render() string {
	if !m.loaded {
		return theme.Muted.Render("Loading profile…")
	}
	if m.data.Err != nil {
		return theme.Bad.Render("profile: " + m.data.Err.Error())
	}
	p := m.data.Profile
	var sb strings.Builder

	sb.WriteString(theme.Title.Render(p.Name) + theme.Muted.Render("  joined "+p.JoinDate.Format("2006-01-02")) + "\n")
	sb.WriteString(fmt.Sprintf("Level %d  ·  %d points  ·  🔥 %d day streak\n", p.Level, p.TotalPoints, p.Streak))
	levelPct := 0
	if span := p.XP + p.PointsToNextLevel; span > 0 {
		levelPct = p.XP * 100 / span
	}
	sb.WriteString(theme.Bar(levelPct, 30) + theme.Muted.Render(fmt.Sprintf("  %d to next level", p.PointsToNextLevel)) + "\n\n")

	sb.WriteString(theme.Title.Render("Subjects") + "\n")
	for _, s := range p.Progress {
		sb.WriteString(fmt.Sprintf("  %-12s %s %3d%% (%d/%d)\n", s.Title, theme.Bar(s.Percent, 20), s.Percent, s.Completed, s.Total))
	}

	c := m.data.Challenge
	sb.WriteString("\n" + theme.Title.Render("Daily challenge") + "\n")
	sb.WriteString(fmt.Sprintf("  %s: %s\n", c.Title, c.Description))
	switch {
	case c.Completed:
		sb.WriteString("  " + theme.Good.Render(fmt.Sprintf("done, +%d points", c.RewardPoints)) + "\n")
	case c.Type == challengedto.TypeSpeed:
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("  pass a quiz within %ds for +%d", c.Target, c.RewardPoints)) + "\n")
	default:
		pct := 0
		if c.Target > 0 {
			pct = c.Progress * 100 / c.Target
		}
		sb.WriteString(fmt.Sprintf("  %s %d/%d  +%d\n", theme.Bar(pct, 20), c.Progress, c.Target, c.RewardPoints))
	}

	sb.WriteString("\n" + theme.Title.Render("Badges") + fmt.Sprintf(" %d/%d\n", p.Achievements, len(p.Badges)))
	for _, b := range p.Badges {
		if b.Unlocked {
			sb.WriteString(fmt.Sprintf("  %s %s\n", b.Icon, b.Name))
		} else {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("  ·  %s: %s", b.Name, b.Description)) + "\n")
		}
	}

	if len(p.Activities) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Recent activity") + "\n")
		for _, a := range p.Activities {
			sb.WriteString(fmt.Sprintf("  %s %s %s\n", a.Icon, a.Title, theme.Muted.Render(a.At.Format("Jan 2 15:04"))))
		}
	}

	sb.WriteString("\n" + theme.Title.Render("Leaderboard") + "\n")
	for _, e := range m.data.Leaderboard {
		line := fmt.Sprintf("  %2d. %-16s %5d  L%d", e.Rank, e.Name, e.Points, e.Level)
		if e.IsYou {
			line = theme.Hot.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + theme.Title.Render("Settings") + "\n")
	for _, s := range m.data.Settings.Values {
		state := theme.Bad.Render("off")
		if s.Enabled {
			state = theme.Good.Render("on")
		}
		sb.WriteString(fmt.Sprintf("  %-26s %s\n", s.Key, state))
	}
	return sb.String()
}
