package modules

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "urworld/internal/modules/progress/dto"
	"urworld/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	List(ctx context.Context, subject string) []progressdto.ModuleStatusOutput
	Read(ctx context.Context, moduleID string) (progressdto.MarkReadOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Modules []progressdto.ModuleStatusOutput
}

type ReadMsg struct {
	Out progressdto.MarkReadOutput
	Err error
}

// StartQuizMsg asks the app to open the quiz tab for the selected module.
type StartQuizMsg struct {
	QuizID string
	Title  string
}

// ─── list item ───────────────────────────────────────────────────────────────

type moduleItem struct {
	module progressdto.ModuleStatusOutput
}

func (i moduleItem) Title() string {
	return statusIcon(i.module) + " " + i.module.Title
}

func (i moduleItem) Description() string {
	m := i.module
	if m.QuizCompleted {
		return fmt.Sprintf("%s #%d  best %d%%", m.Subject, m.Sequence, m.BestScore)
	}
	return fmt.Sprintf("%s #%d", m.Subject, m.Sequence)
}

func (i moduleItem) FilterValue() string { return i.module.Title + " " + i.module.Subject }

func statusIcon(m progressdto.ModuleStatusOutput) string {
	switch {
	case m.FullyCompleted:
		return "✔"
	case m.Read:
		return "◐"
	case m.Unlocked:
		return "○"
	default:
		return "🔒"
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	notice  string
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Modules"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		items := make([]list.Item, len(msg.Modules))
		for i, mod := range msg.Modules {
			items[i] = moduleItem{module: mod}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case ReadMsg:
		switch {
		case msg.Err != nil:
			m.notice = theme.Bad.Render(msg.Err.Error())
		case msg.Out.Changed:
			m.notice = theme.Good.Render("marked as read: " + msg.Out.Title)
		default:
			m.notice = theme.Muted.Render("already read: " + msg.Out.Title)
		}
		cmds = append(cmds, m.Reload())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if !m.Filtering() {
			switch msg.String() {
			case "r":
				if mod, ok := m.Selected(); ok {
					cmds = append(cmds, m.readCmd(mod.ModuleID))
				}
			case "enter":
				if mod, ok := m.Selected(); ok {
					return m, func() tea.Msg { return StartQuizMsg{QuizID: mod.QuizID, Title: mod.QuizTitle} }
				}
			}
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.notice = ""
			m.detail.SetContent(m.renderDetail())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading modules…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Reload re-reads module status from the ledger.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		return LoadedMsg{Modules: m.port.List(context.Background(), "")}
	}
}

func (m Model) Selected() (progressdto.ModuleStatusOutput, bool) {
	if item, ok := m.list.SelectedItem().(moduleItem); ok {
		return item.module, true
	}
	return progressdto.ModuleStatusOutput{}, false
}

// MarkSelectedRead is the palette entry point for "module:read".
func (m Model) MarkSelectedRead() tea.Cmd {
	mod, ok := m.Selected()
	if !ok {
		return nil
	}
	return m.readCmd(mod.ModuleID)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	mod, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("No modules in the catalog")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(mod.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("module:  ") + mod.ModuleID + "\n")
	sb.WriteString(theme.Muted.Render("subject: ") + mod.Subject + "\n")
	sb.WriteString(theme.Muted.Render("quiz:    ") + mod.QuizTitle + "\n\n")

	switch {
	case !mod.Unlocked:
		sb.WriteString(theme.Muted.Render("Locked. Finish the previous module's quiz first.") + "\n")
	case !mod.Read:
		sb.WriteString("Not read yet.\n")
	case !mod.QuizCompleted:
		sb.WriteString("Read. The quiz is open.\n")
	default:
		sb.WriteString(fmt.Sprintf("Completed %s, best score %d%%\n",
			mod.CompletedAt.Format("2006-01-02"), mod.BestScore))
	}
	if m.notice != "" {
		sb.WriteString("\n" + m.notice + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("r: mark read  enter: take quiz"))
	return sb.String()
}

func (m Model) readCmd(moduleID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Read(context.Background(), moduleID)
		return ReadMsg{Out: out, Err: err}
	}
}
