package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	quizdto "urworld/internal/modules/quiz/dto"
	"urworld/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the slice of the quiz use-case this view drives. Answer takes a
// one-based option number.
type Port interface {
	Start(ctx context.Context, quizID string) (quizdto.QuestionView, error)
	Answer(ctx context.Context, quizID string, option int) (quizdto.QuestionView, error)
	Next(ctx context.Context, quizID string) (quizdto.StepOutput, error)
	Abandon(ctx context.Context, quizID string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type QuestionMsg struct {
	View quizdto.QuestionView
	Err  error
}

type StepMsg struct {
	Step quizdto.StepOutput
	Err  error
}

// FinishedMsg is emitted once an attempt produced a result.
type FinishedMsg struct {
	Result quizdto.ResultOutput
}

type AbandonedMsg struct {
	QuizID string
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	viewport viewport.Model
	quizID   string
	question quizdto.QuestionView
	result   *quizdto.ResultOutput
	errText  string
	width    int
	height   int
}

func New(port Port) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Padding(1, 2)
	return Model{port: port, viewport: vp}
}

// Init is a no-op: the quiz tab is idle until Begin is called.
func (m Model) Init() tea.Cmd { return nil }

// Begin starts or resumes the attempt for quizID.
func (m Model) Begin(quizID string) tea.Cmd {
	return func() tea.Msg {
		view, err := m.port.Start(context.Background(), quizID)
		return QuestionMsg{View: view, Err: err}
	}
}

// Abandon drops the running attempt, if any.
func (m Model) Abandon() tea.Cmd {
	if m.quizID == "" || m.result != nil {
		return nil
	}
	quizID := m.quizID
	return func() tea.Msg {
		return AbandonedMsg{QuizID: quizID, Err: m.port.Abandon(context.Background(), quizID)}
	}
}

// Active reports whether an attempt is open in this view.
func (m Model) Active() bool { return m.quizID != "" && m.result == nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height

	case QuestionMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.errText = ""
			m.result = nil
			m.quizID = msg.View.QuizID
			m.question = msg.View
		}

	case StepMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			break
		}
		m.errText = ""
		if msg.Step.Completed {
			result := msg.Step.Result
			m.result = &result
			m.viewport.SetContent(m.render())
			return m, func() tea.Msg { return FinishedMsg{Result: result} }
		}
		m.question = msg.Step.Question

	case AbandonedMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.quizID = ""
			m.question = quizdto.QuestionView{}
		}

	case tea.KeyMsg:
		if cmd := m.handleKey(msg.String()); cmd != nil {
			return m, cmd
		}
	}

	m.viewport.SetContent(m.render())
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) handleKey(k string) tea.Cmd {
	if !m.Active() {
		return nil
	}
	switch k {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		option := int(k[0] - '0')
		if option > len(m.question.Options) || m.question.Revealed {
			return nil
		}
		quizID := m.quizID
		return func() tea.Msg {
			view, err := m.port.Answer(context.Background(), quizID, option)
			return QuestionMsg{View: view, Err: err}
		}
	case "n", "enter":
		if !m.question.Revealed {
			return nil
		}
		quizID := m.quizID
		return func() tea.Msg {
			step, err := m.port.Next(context.Background(), quizID)
			return StepMsg{Step: step, Err: err}
		}
	}
	return nil
}

func (m Model) render() string {
	var sb strings.Builder
	if m.errText != "" {
		sb.WriteString(theme.Bad.Render(m.errText) + "\n\n")
	}
	switch {
	case m.result != nil:
		sb.WriteString(renderResult(*m.result))
	case m.quizID != "":
		sb.WriteString(renderQuestion(m.question))
	default:
		sb.WriteString(theme.Muted.Render("Pick a module on the Modules tab and press enter to take its quiz."))
	}
	return sb.String()
}

func renderQuestion(q quizdto.QuestionView) string {
	var sb strings.Builder
	header := fmt.Sprintf("%s  %d/%d", q.QuizTitle, q.Number, q.Total)
	if q.ShowTimer {
		header += fmt.Sprintf("  ⏱ %ds", q.ElapsedSeconds)
	}
	sb.WriteString(theme.Title.Render(header) + "\n")
	sb.WriteString(theme.Bar(q.Number*100/max(q.Total, 1), 30) + "\n\n")
	sb.WriteString(q.Prompt + "\n\n")

	for i, opt := range q.Options {
		line := fmt.Sprintf("  %d. %s", i+1, opt)
		switch {
		case q.Revealed && i == q.CorrectAnswer:
			line = theme.Good.Render(line + "  ✔")
		case q.Revealed && i == q.Chosen:
			line = theme.Bad.Render(line + "  ✘")
		}
		sb.WriteString(line + "\n")
	}

	if q.Revealed {
		sb.WriteString("\n")
		if q.Correct {
			sb.WriteString(theme.Good.Render("Correct!") + "\n")
		} else {
			sb.WriteString(theme.Bad.Render("Not quite.") + "\n")
		}
		if q.Explanation != "" {
			sb.WriteString(theme.Muted.Render(q.Explanation) + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("n: next question"))
	} else {
		sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("1-%d: answer", len(q.Options))))
	}
	return sb.String()
}

func renderResult(r quizdto.ResultOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(r.QuizTitle+" complete") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s  %d%%  (%d/%d)\n", theme.Stars(r.Stars, 3), r.Score, r.CorrectCount, r.Total))
	if r.ShowTimer {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("time: %ds", r.Seconds)) + "\n")
	}
	sb.WriteString("\n" + r.Message + "\n")
	if r.UnlockedModuleID != "" {
		sb.WriteString(theme.Good.Render("Unlocked: "+r.UnlockedModuleID) + "\n")
	}
	if r.ChallengeCompleted {
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("Daily challenge complete: %s (+%d)",
			r.Challenge.Title, r.Challenge.RewardPoints)) + "\n")
	}
	for _, b := range r.Profile.NewBadges {
		sb.WriteString(theme.Star.Render(b.Icon+" New badge: "+b.Name) + "\n")
	}
	sb.WriteString(fmt.Sprintf("\nLevel %d  ·  %d points  ·  best %d%%\n",
		r.Profile.Level, r.Profile.TotalPoints, r.BestScore))
	return sb.String()
}
