package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"urworld/internal/modules/profile/domain"
	"urworld/internal/modules/profile/dto"
	profilein "urworld/internal/modules/profile/port/in"
	profileout "urworld/internal/modules/profile/port/out"
	"urworld/internal/modules/profile/service"
	progressin "urworld/internal/modules/progress/port/in"
	"urworld/internal/platform/clock"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/events"
	"urworld/internal/platform/kvstore"
)

const maxNameLength = 40

type Interactor struct {
	svc       *service.ProfileService
	progress  progressin.Usecase
	report    profileout.ReportWriter
	publisher events.Publisher
}

func NewInteractor(svc *service.ProfileService, progress progressin.Usecase, report profileout.ReportWriter, publisher events.Publisher) profilein.Usecase {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Interactor{svc: svc, progress: progress, report: report, publisher: publisher}
}

func (i *Interactor) Refresh(ctx context.Context) (dto.ProfileOutput, error) {
	return i.apply(ctx, nil), nil
}

func (i *Interactor) Get(ctx context.Context) (dto.ProfileOutput, error) {
	p, state := i.svc.Preview(ctx, i.quizzes(ctx))
	return i.toOutput(p, nil, state), nil
}

func (i *Interactor) Rename(ctx context.Context, name string) (dto.ProfileOutput, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return dto.ProfileOutput{}, fmt.Errorf("%w: name must be 1..%d characters", apperrors.ErrInvalidInput, maxNameLength)
	}
	return i.apply(ctx, func(p *domain.Profile, _ time.Time) {
		p.Name = name
	}), nil
}

func (i *Interactor) RecordQuizCompletion(ctx context.Context, input dto.QuizCompletionInput) (dto.ProfileOutput, error) {
	if input.QuizID == "" {
		return dto.ProfileOutput{}, fmt.Errorf("%w: quiz id is required", apperrors.ErrInvalidInput)
	}
	title := input.Title
	if title == "" {
		title = input.QuizID
	}
	return i.apply(ctx, func(p *domain.Profile, now time.Time) {
		p.RecordQuizTime(input.Seconds)
		if input.Passed {
			p.PushActivity(domain.Activity{
				Title: fmt.Sprintf("Completed quiz: %s (score %d%%)", cases.Title(language.English).String(title), input.Score),
				Icon:  domain.IconQuiz,
				At:    now,
			})
		}
	}), nil
}

func (i *Interactor) CreditPoints(ctx context.Context, input dto.CreditInput) (dto.ProfileOutput, error) {
	if input.Amount <= 0 {
		return dto.ProfileOutput{}, fmt.Errorf("%w: credit must be positive", apperrors.ErrInvalidInput)
	}
	return i.apply(ctx, func(p *domain.Profile, now time.Time) {
		p.BonusPoints += input.Amount
		p.XP += input.Amount
		title := fmt.Sprintf("Earned %d bonus points", input.Amount)
		if input.Reason != "" {
			title += ": " + input.Reason
		}
		p.PushActivity(domain.Activity{Title: title, Icon: domain.IconChallenge, At: now})
	}), nil
}

func (i *Interactor) Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	p, _ := i.svc.Preview(ctx, i.quizzes(ctx))
	board := domain.Leaderboard(p)
	out := make([]dto.LeaderboardEntry, 0, len(board))
	for _, e := range board {
		out = append(out, dto.LeaderboardEntry{Rank: e.Rank, Name: e.Name, Points: e.Points, Level: e.Level, IsYou: e.IsYou})
	}
	return out, nil
}

func (i *Interactor) WriteReport(ctx context.Context) (string, error) {
	if i.report == nil {
		return "", fmt.Errorf("report writer is not configured")
	}
	out, err := i.Get(ctx)
	if err != nil {
		return "", err
	}
	return i.report.WriteSummary(ctx, renderSummary(out))
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.svc.Reset(ctx)
}

func (i *Interactor) apply(ctx context.Context, mutate func(*domain.Profile, time.Time)) dto.ProfileOutput {
	p, unlocked, state := i.svc.Apply(ctx, i.quizzes(ctx), mutate)
	for _, b := range unlocked {
		i.publisher.Publish(ctx, events.Event{Type: events.BadgeUnlocked, Subject: b.ID, Title: b.Name, At: badgeTime(p, b.ID)})
	}
	return i.toOutput(p, unlocked, state)
}

func (i *Interactor) quizzes(ctx context.Context) []domain.QuizResult {
	snap := i.progress.Snapshot(ctx)
	out := make([]domain.QuizResult, 0, len(snap.Quizzes))
	for _, q := range snap.Quizzes {
		out = append(out, domain.QuizResult{QuizID: q.QuizID, Score: q.Score})
	}
	return out
}

func (i *Interactor) toOutput(p domain.Profile, unlocked []domain.Badge, state kvstore.State) dto.ProfileOutput {
	out := dto.ProfileOutput{
		Name:               p.Name,
		JoinDate:           p.JoinDate,
		Level:              p.Level,
		TotalPoints:        p.TotalPoints,
		BonusPoints:        p.BonusPoints,
		XP:                 p.XP,
		PointsToNextLevel:  domain.PointsToNextLevel(p.TotalPoints),
		CompletedModules:   p.CompletedModules,
		Achievements:       p.Achievements,
		Streak:             p.Streak,
		LastVisit:          p.LastVisit,
		FastestQuizSeconds: p.FastestQuizSeconds,
		LoadState:          state.String(),
	}
	cat := i.svc.Catalog()
	for _, s := range cat.Subjects() {
		out.Progress = append(out.Progress, dto.SubjectProgress{
			Subject:   s.ID,
			Title:     s.Title,
			Percent:   p.Progress[s.ID],
			Completed: p.SubjectCounts[s.ID],
			Total:     len(s.Modules),
		})
	}
	for _, a := range p.Activities {
		out.Activities = append(out.Activities, dto.ActivityOutput{Title: a.Title, Icon: a.Icon, At: a.At})
	}
	for _, st := range p.Badges {
		b, _ := domain.BadgeByID(st.ID)
		out.Badges = append(out.Badges, toBadgeOutput(b, st))
	}
	for _, b := range unlocked {
		out.NewBadges = append(out.NewBadges, toBadgeOutput(b, domain.BadgeState{ID: b.ID, Unlocked: true, UnlockedAt: badgeTime(p, b.ID)}))
	}
	return out
}

func toBadgeOutput(b domain.Badge, st domain.BadgeState) dto.BadgeOutput {
	return dto.BadgeOutput{
		ID:          st.ID,
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		Unlocked:    st.Unlocked,
		UnlockedAt:  st.UnlockedAt,
	}
}

func badgeTime(p domain.Profile, id string) time.Time {
	for _, st := range p.Badges {
		if st.ID == id {
			return st.UnlockedAt
		}
	}
	return time.Time{}
}

func renderSummary(p dto.ProfileOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", p.Name)
	fmt.Fprintf(&b, "- Level: %d (%d points, %d to next level)\n", p.Level, p.TotalPoints, p.PointsToNextLevel)
	fmt.Fprintf(&b, "- Completed modules: %d\n", p.CompletedModules)
	fmt.Fprintf(&b, "- Streak: %d day(s), last visit %s\n", p.Streak, p.LastVisit)
	b.WriteString("\n### Subjects\n\n")
	for _, s := range p.Progress {
		fmt.Fprintf(&b, "- %s: %d%% (%d/%d)\n", s.Title, s.Percent, s.Completed, s.Total)
	}
	b.WriteString("\n### Badges\n\n")
	for _, badge := range p.Badges {
		mark := " "
		if badge.Unlocked {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s: %s\n", mark, badge.Name, badge.Description)
	}
	if len(p.Activities) > 0 {
		b.WriteString("\n### Recent activity\n\n")
		for _, a := range p.Activities {
			fmt.Fprintf(&b, "- %s %s\n", a.At.Format(time.DateTime), a.Title)
		}
	}
	if !p.JoinDate.IsZero() {
		fmt.Fprintf(&b, "\nLearning since %s.\n", clock.DateString(p.JoinDate))
	}
	return b.String()
}
