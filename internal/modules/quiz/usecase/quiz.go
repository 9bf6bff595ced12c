package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	challengedto "urworld/internal/modules/challenge/dto"
	challengein "urworld/internal/modules/challenge/port/in"
	profiledto "urworld/internal/modules/profile/dto"
	profilein "urworld/internal/modules/profile/port/in"
	progressdto "urworld/internal/modules/progress/dto"
	progressin "urworld/internal/modules/progress/port/in"
	"urworld/internal/modules/quiz/domain"
	"urworld/internal/modules/quiz/dto"
	quizin "urworld/internal/modules/quiz/port/in"
	quizout "urworld/internal/modules/quiz/port/out"
	"urworld/internal/modules/quiz/service"
	settingsdto "urworld/internal/modules/settings/dto"
	settingsin "urworld/internal/modules/settings/port/in"
	"urworld/internal/platform/catalog"
	"urworld/internal/platform/clock"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/logging"
)

type Deps struct {
	Service   *service.QuizService
	Clock     clock.Clock
	Progress  progressin.Usecase
	Profile   profilein.Usecase
	Challenge challengein.Usecase
	Settings  settingsin.Usecase
	Notes     quizout.NoteWriter
	Logger    *slog.Logger
}

type Interactor struct {
	svc       *service.QuizService
	clock     clock.Clock
	progress  progressin.Usecase
	profile   profilein.Usecase
	challenge challengein.Usecase
	settings  settingsin.Usecase
	notes     quizout.NoteWriter
	logger    *slog.Logger
}

func NewInteractor(deps Deps) quizin.Usecase {
	return &Interactor{
		svc:       deps.Service,
		clock:     deps.Clock,
		progress:  deps.Progress,
		profile:   deps.Profile,
		challenge: deps.Challenge,
		settings:  deps.Settings,
		notes:     deps.Notes,
		logger:    logging.OrDiscard(deps.Logger),
	}
}

func (i *Interactor) Start(ctx context.Context, quizID string) (dto.QuestionView, error) {
	m, questions, err := i.svc.Resolve(quizID)
	if err != nil {
		return dto.QuestionView{}, err
	}
	if !i.progress.IsQuizUnlocked(ctx, m.QuizID) {
		return dto.QuestionView{}, fmt.Errorf("%w: read %s before taking %s", apperrors.ErrLocked, m.ModuleID, m.QuizID)
	}
	a, resumed, err := i.svc.Begin(ctx, m, len(questions))
	if err != nil {
		return dto.QuestionView{}, err
	}
	view := i.view(ctx, a, m, questions)
	view.Resumed = resumed
	return view, nil
}

func (i *Interactor) Answer(ctx context.Context, input dto.AnswerInput) (dto.QuestionView, error) {
	m, questions, err := i.svc.Resolve(input.QuizID)
	if err != nil {
		return dto.QuestionView{}, err
	}
	a, err := i.svc.Active(ctx, m.QuizID)
	if err != nil {
		return dto.QuestionView{}, err
	}
	q := questions[a.QuestionIndex]
	if input.Choice < 0 || input.Choice >= len(q.Options) {
		return dto.QuestionView{}, fmt.Errorf("%w: choice must be 1..%d", apperrors.ErrInvalidInput, len(q.Options))
	}
	err = a.Submit(input.Choice, input.Choice == q.Answer)
	if errors.Is(err, apperrors.ErrAlreadyAnswered) {
		view := i.view(ctx, a, m, questions)
		view.Ignored = true
		return view, nil
	}
	if err != nil {
		return dto.QuestionView{}, err
	}
	if err := i.svc.Save(ctx, a); err != nil {
		return dto.QuestionView{}, err
	}
	return i.view(ctx, a, m, questions), nil
}

func (i *Interactor) Next(ctx context.Context, quizID string) (dto.StepOutput, error) {
	m, questions, err := i.svc.Resolve(quizID)
	if err != nil {
		return dto.StepOutput{}, err
	}
	a, err := i.svc.Active(ctx, m.QuizID)
	if err != nil {
		return dto.StepOutput{}, err
	}
	done, err := a.Advance(i.clock.Now())
	if err != nil {
		return dto.StepOutput{}, err
	}
	if !done {
		if err := i.svc.Save(ctx, a); err != nil {
			return dto.StepOutput{}, err
		}
		return dto.StepOutput{Question: i.view(ctx, a, m, questions)}, nil
	}
	result, err := i.complete(ctx, a, m, questions)
	if err != nil {
		return dto.StepOutput{}, err
	}
	return dto.StepOutput{Completed: true, Result: result}, nil
}

func (i *Interactor) Current(ctx context.Context, quizID string) (dto.QuestionView, error) {
	m, questions, err := i.svc.Resolve(quizID)
	if err != nil {
		return dto.QuestionView{}, err
	}
	a, err := i.svc.Active(ctx, m.QuizID)
	if err != nil {
		return dto.QuestionView{}, err
	}
	return i.view(ctx, a, m, questions), nil
}

func (i *Interactor) Abandon(ctx context.Context, quizID string) error {
	m, _, err := i.svc.Resolve(quizID)
	if err != nil {
		return err
	}
	return i.svc.Abandon(ctx, m.QuizID)
}

func (i *Interactor) History(ctx context.Context, quizID string) (dto.HistoryOutput, error) {
	m, _, err := i.svc.Resolve(quizID)
	if err != nil {
		return dto.HistoryOutput{}, err
	}
	h, state := i.svc.History(ctx)
	out := dto.HistoryOutput{QuizID: m.QuizID, QuizTitle: m.QuizTitle, LoadState: state.String()}
	for _, e := range h[m.QuizID] {
		correct := 0
		for _, ans := range e.Answers {
			if ans.Correct {
				correct++
			}
		}
		out.Entries = append(out.Entries, dto.HistoryEntryOutput{
			Score:        e.Score,
			Seconds:      e.Seconds,
			Date:         e.Date,
			PerfectScore: e.PerfectScore,
			Correct:      correct,
			Total:        len(e.Answers),
		})
	}
	if best, ok := h.Best(m.QuizID); ok {
		out.Best = best.Score
	}
	return out, nil
}

func (i *Interactor) ClearHistory(ctx context.Context) error {
	return i.svc.ClearHistory(ctx)
}

// complete runs the terminal transition: ledger first, so a failed write
// leaves the session in place for a retry.
func (i *Interactor) complete(ctx context.Context, a domain.Attempt, m catalog.ModuleDescriptor, questions []catalog.Question) (dto.ResultOutput, error) {
	score := a.Score()
	recorded, err := i.progress.RecordQuizResult(ctx, progressdto.RecordQuizInput{QuizID: m.QuizID, Score: score})
	if err != nil {
		return dto.ResultOutput{}, fmt.Errorf("record quiz result: %w", err)
	}
	entry := i.svc.Finish(ctx, a)
	passed := domain.Passed(score)

	result := dto.ResultOutput{
		AttemptID:        a.ID,
		QuizID:           m.QuizID,
		QuizTitle:        m.QuizTitle,
		ModuleID:         m.ModuleID,
		Score:            score,
		Stars:            domain.Stars(score),
		Rating:           domain.Rating(score),
		Message:          domain.Message(score),
		Passed:           passed,
		CorrectCount:     a.CorrectCount,
		Total:            a.TotalQuestions,
		Seconds:          entry.Seconds,
		ShowTimer:        i.enabled(ctx, settingsdto.KeyQuizTimer),
		BestScore:        recorded.BestScore,
		UnlockedModuleID: recorded.UnlockedModuleID,
	}

	if i.notes != nil {
		path, err := i.notes.WriteAttempt(ctx, quizout.AttemptNote{
			Attempt: a, Module: m, Questions: questions,
			Score: score, Stars: result.Stars, Passed: passed, Seconds: entry.Seconds,
		})
		if err != nil {
			i.logger.Warn("attempt note not written", "quiz", m.QuizID, "error", err)
		}
		result.NotePath = path
	}

	var newBadges []profiledto.BadgeOutput
	if i.profile != nil {
		completion, err := i.profile.RecordQuizCompletion(ctx, profiledto.QuizCompletionInput{
			QuizID:  m.QuizID,
			Title:   m.QuizTitle,
			Score:   score,
			Seconds: entry.Seconds,
			Passed:  passed,
		})
		if err != nil {
			i.logger.Warn("profile update after quiz failed", "quiz", m.QuizID, "error", err)
		}
		newBadges = completion.NewBadges
	}

	if i.challenge != nil {
		updates := []challengedto.UpdateInput{{Type: challengedto.TypeQuiz, Value: 1}}
		if score == 100 {
			updates = append(updates, challengedto.UpdateInput{Type: challengedto.TypePerfect, Value: 1})
		}
		if passed {
			updates = append(updates, challengedto.UpdateInput{Type: challengedto.TypeSpeed, Value: entry.Seconds})
		}
		for _, u := range updates {
			out, err := i.challenge.UpdateProgress(ctx, u)
			if err != nil {
				i.logger.Warn("challenge update after quiz failed", "type", u.Type, "error", err)
				continue
			}
			result.Challenge = out
			if out.JustCompleted {
				result.ChallengeCompleted = true
			}
		}
	}

	if i.profile != nil {
		final, err := i.profile.Get(ctx)
		if err != nil {
			i.logger.Warn("profile reload after quiz failed", "error", err)
		}
		final.NewBadges = newBadges
		result.Profile = final
	}
	return result, nil
}

func (i *Interactor) view(ctx context.Context, a domain.Attempt, m catalog.ModuleDescriptor, questions []catalog.Question) dto.QuestionView {
	q := questions[a.QuestionIndex]
	v := dto.QuestionView{
		AttemptID:     a.ID,
		QuizID:        m.QuizID,
		QuizTitle:     m.QuizTitle,
		ModuleID:      m.ModuleID,
		Number:        a.QuestionIndex + 1,
		Total:         a.TotalQuestions,
		Prompt:        q.Prompt,
		Options:       append([]string(nil), q.Options...),
		State:         a.State.String(),
		Chosen:        -1,
		CorrectAnswer: -1,
		CorrectCount:  a.CorrectCount,
		ShowTimer:     i.enabled(ctx, settingsdto.KeyQuizTimer),
	}
	if v.ShowTimer {
		v.ElapsedSeconds = a.ElapsedSeconds(i.clock.Now())
	}
	if ans, ok := a.LastAnswer(); ok {
		v.Revealed = true
		v.Chosen = ans.Choice
		v.Correct = ans.Correct
		v.CorrectAnswer = q.Answer
		if i.enabled(ctx, settingsdto.KeyShowExplanations) {
			v.Explanation = q.Explanation
		}
	}
	return v
}

func (i *Interactor) enabled(ctx context.Context, key string) bool {
	if i.settings == nil {
		return false
	}
	return i.settings.Enabled(ctx, key)
}
