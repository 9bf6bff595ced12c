package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	challengedto "urworld/internal/modules/challenge/dto"
	profiledto "urworld/internal/modules/profile/dto"
	progressdto "urworld/internal/modules/progress/dto"
	quizdto "urworld/internal/modules/quiz/dto"
	settingsdto "urworld/internal/modules/settings/dto"
	"urworld/internal/platform/events"
	"urworld/internal/ui/components"
	"urworld/internal/ui/theme"
	modulesview "urworld/internal/ui/views/modules"
	profileview "urworld/internal/ui/views/profile"
	quizview "urworld/internal/ui/views/quiz"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type progressPort interface {
	List(ctx context.Context, subject string) []progressdto.ModuleStatusOutput
	Read(ctx context.Context, moduleID string) (progressdto.MarkReadOutput, error)
}

type quizPort interface {
	Start(ctx context.Context, quizID string) (quizdto.QuestionView, error)
	Answer(ctx context.Context, quizID string, option int) (quizdto.QuestionView, error)
	Next(ctx context.Context, quizID string) (quizdto.StepOutput, error)
	Abandon(ctx context.Context, quizID string) error
}

type profilePort interface {
	Refresh(ctx context.Context) (profiledto.ProfileOutput, error)
	Rename(ctx context.Context, name string) (profiledto.ProfileOutput, error)
	Leaderboard(ctx context.Context) ([]profiledto.LeaderboardEntry, error)
	Report(ctx context.Context) (string, error)
}

type challengePort interface {
	Today(ctx context.Context) (challengedto.ChallengeOutput, error)
}

type settingsPort interface {
	List(ctx context.Context) settingsdto.SettingsOutput
	Set(ctx context.Context, key, value string) (settingsdto.SettingsOutput, error)
	Reset(ctx context.Context) (settingsdto.SettingsOutput, error)
}

type notificationSource interface {
	Drain() []events.Event
}

// Ports bundles what NewModel needs. Changes carries storage keys written by
// other processes; it may be nil.
type Ports struct {
	VaultPath     string
	Progress      progressPort
	Quiz          quizPort
	Profile       profilePort
	Challenge     challengePort
	Settings      settingsPort
	Notifications notificationSource
	Changes       <-chan []string
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabModules tabID = iota
	tabQuiz
	tabProfile
	tabCount
)

var tabLabels = [tabCount]string{
	"Modules", "Quiz", "Profile",
}

// ─── async messages ───────────────────────────────────────────────────────────

type storageChangedMsg struct{ keys []string }

type actionDoneMsg struct {
	status string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Read    key.Binding
	Enter   key.Binding
	Answer  key.Binding
	Next    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Read:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "mark read")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "take quiz")),
		Answer:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "answer")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next question")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Read, k.Enter},
		{k.Answer, k.Next},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the global help
// overlay, the command palette and the notification line. All business logic
// is delegated to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	vaultPath string

	profile       profilePort
	settings      settingsPort
	notifications notificationSource
	changes       <-chan []string

	modView     modulesview.Model
	quizView    quizview.Model
	profileView profileview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(p Ports) Model {
	return Model{
		vaultPath:     p.VaultPath,
		profile:       p.Profile,
		settings:      p.Settings,
		notifications: p.Notifications,
		changes:       p.Changes,
		modView:       modulesview.New(p.Progress),
		quizView:      quizview.New(p.Quiz),
		profileView:   profileview.New(p.Profile, p.Challenge, p.Settings),
		activeTab:     tabModules,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.modView.Init(),
		m.profileView.Init(),
		m.waitForChange(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case storageChangedMsg:
		m.status = "reloaded: " + strings.Join(msg.keys, ", ")
		return m, tea.Batch(m.modView.Reload(), m.profileView.Reload(), m.waitForChange())

	case modulesview.LoadedMsg:
		var cmd tea.Cmd
		m.modView, cmd = m.modView.Update(msg)
		return m, cmd

	case modulesview.ReadMsg:
		var cmd tea.Cmd
		m.modView, cmd = m.modView.Update(msg)
		m.drainNotifications()
		return m, tea.Batch(cmd, m.profileView.Reload())

	case modulesview.StartQuizMsg:
		m.activeTab = tabQuiz
		m.status = "quiz: " + msg.Title
		return m, m.quizView.Begin(msg.QuizID)

	case quizview.FinishedMsg:
		m.status = fmt.Sprintf("%s: %d%%", msg.Result.QuizTitle, msg.Result.Score)
		m.drainNotifications()
		return m, tea.Batch(m.modView.Reload(), m.profileView.Reload())

	case quizview.QuestionMsg, quizview.StepMsg, quizview.AbandonedMsg:
		var cmd tea.Cmd
		m.quizView, cmd = m.quizView.Update(msg)
		return m, cmd

	case profileview.LoadedMsg:
		var cmd tea.Cmd
		m.profileView, cmd = m.profileView.Update(msg)
		return m, cmd

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.status
		}
		return m, m.profileView.Reload()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabModules:
		m.modView, tabCmd = m.modView.Update(msg)
	case tabQuiz:
		m.quizView, tabCmd = m.quizView.Update(msg)
	case tabProfile:
		m.profileView, tabCmd = m.profileView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabModules:
		return m.modView.View()
	case tabQuiz:
		return m.quizView.View()
	case tabProfile:
		return m.profileView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "urworld  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.quizView.Active() {
		left = theme.Hot.Render("● quiz in progress") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "module:read":
		cmd := m.modView.MarkSelectedRead()
		if cmd == nil {
			m.status = "no module selected"
		}
		return m, cmd

	case "quiz:start":
		mod, ok := m.modView.Selected()
		if !ok {
			m.status = "no module selected"
			return m, nil
		}
		m.activeTab = tabQuiz
		return m, m.quizView.Begin(mod.QuizID)

	case "quiz:abandon":
		cmd := m.quizView.Abandon()
		if cmd == nil {
			m.status = "no quiz in progress"
			return m, nil
		}
		m.status = "quiz abandoned"
		return m, cmd

	case "profile:rename":
		name := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if name == "" {
			m.status = "usage: profile:rename <name>"
			return m, nil
		}
		return m, m.renameCmd(name)

	case "profile:report":
		return m, m.reportCmd()

	case "settings:set":
		if len(parts) < 3 {
			m.status = "usage: settings:set <key> <on|off>"
			return m, nil
		}
		return m, m.setSettingCmd(parts[1], parts[2])

	case "settings:reset":
		return m, m.resetSettingsCmd()

	case "refresh":
		m.status = "refreshing"
		return m, tea.Batch(m.modView.Reload(), m.profileView.Reload())

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	return m.activeTab == tabModules && m.modView.Filtering()
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.modView, _ = m.modView.Update(sz)
	m.quizView, _ = m.quizView.Update(sz)
	m.profileView, _ = m.profileView.Update(sz)
}

// drainNotifications moves pending achievement and challenge events into the
// status line.
func (m *Model) drainNotifications() {
	if m.notifications == nil {
		return
	}
	var notes []string
	for _, e := range m.notifications.Drain() {
		switch e.Type {
		case events.BadgeUnlocked:
			notes = append(notes, "🏅 "+e.Title)
		case events.ChallengeRewarded:
			notes = append(notes, "🎯 "+e.Title)
		case events.ModuleUnlocked:
			notes = append(notes, "🔓 "+e.Title)
		}
	}
	if len(notes) > 0 {
		m.status = strings.Join(notes, "  ")
	}
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		keys, ok := <-changes
		if !ok {
			return nil
		}
		return storageChangedMsg{keys: keys}
	}
}

func (m Model) renameCmd(name string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.profile.Rename(context.Background(), name)
		return actionDoneMsg{status: "renamed to " + out.Name, err: err}
	}
}

func (m Model) reportCmd() tea.Cmd {
	return func() tea.Msg {
		path, err := m.profile.Report(context.Background())
		return actionDoneMsg{status: "report written: " + path, err: err}
	}
}

func (m Model) setSettingCmd(key, value string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.settings.Set(context.Background(), key, value)
		return actionDoneMsg{status: "setting " + key + " = " + value, err: err}
	}
}

func (m Model) resetSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.settings.Reset(context.Background())
		return actionDoneMsg{status: "settings reset", err: err}
	}
}
