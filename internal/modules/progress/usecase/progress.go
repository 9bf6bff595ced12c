package usecase

import (
	"context"
	"errors"

	"urworld/internal/modules/progress/domain"
	"urworld/internal/modules/progress/dto"
	progressin "urworld/internal/modules/progress/port/in"
	progressout "urworld/internal/modules/progress/port/out"
	"urworld/internal/modules/progress/service"
	"urworld/internal/platform/catalog"
	"urworld/internal/platform/clock"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/events"
)

type Interactor struct {
	svc       *service.LedgerService
	clock     clock.Clock
	publisher events.Publisher
	observer  progressout.ReadObserver
}

func NewInteractor(svc *service.LedgerService, clk clock.Clock, publisher events.Publisher, observer progressout.ReadObserver) progressin.Usecase {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Interactor{svc: svc, clock: clk, publisher: publisher, observer: observer}
}

func (i *Interactor) MarkModuleRead(ctx context.Context, moduleID string) (dto.MarkReadOutput, error) {
	_, m, changed, err := i.svc.MarkModuleRead(ctx, moduleID)
	out := dto.MarkReadOutput{ModuleID: moduleID, Title: m.Title, Known: m.ModuleID != "", Changed: changed}
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return out, nil
	case errors.Is(err, apperrors.ErrLocked):
		out.Locked = true
		return out, nil
	case err != nil:
		return out, err
	}
	if changed {
		i.publisher.Publish(ctx, events.Event{Type: events.ModuleRead, Subject: m.ModuleID, Title: m.Title, At: i.clock.Now()})
		if i.observer != nil {
			i.observer.ModuleRead(ctx, m.ModuleID)
		}
	}
	return out, nil
}

func (i *Interactor) RecordQuizResult(ctx context.Context, input dto.RecordQuizInput) (dto.RecordQuizOutput, error) {
	before, after, improved, err := i.svc.RecordQuiz(ctx, input.QuizID, input.Score)
	if err != nil {
		return dto.RecordQuizOutput{}, err
	}
	cat := i.svc.Catalog()
	m, _ := cat.ModuleForQuiz(input.QuizID)
	rec, _ := after.Quiz(input.QuizID)
	_, existed := before.Quiz(input.QuizID)
	out := dto.RecordQuizOutput{
		QuizID:          input.QuizID,
		ModuleID:        m.ModuleID,
		Subject:         m.Subject,
		Score:           input.Score,
		BestScore:       rec.Score,
		Improved:        improved,
		FirstCompletion: !existed,
		Passed:          domain.Passed(input.Score),
		CompletedAt:     rec.CompletedAt,
	}
	i.publisher.Publish(ctx, events.Event{
		Type:    events.QuizRecorded,
		Subject: input.QuizID,
		Title:   m.QuizTitle,
		Data:    map[string]any{"score": input.Score, "best": rec.Score},
		At:      rec.CompletedAt,
	})
	if next, ok := cat.Next(m.ModuleID); ok {
		if !domain.IsModuleUnlocked(cat, before, next.ModuleID) && domain.IsModuleUnlocked(cat, after, next.ModuleID) {
			out.UnlockedModuleID = next.ModuleID
			i.publisher.Publish(ctx, events.Event{Type: events.ModuleUnlocked, Subject: next.ModuleID, Title: next.Title, At: rec.CompletedAt})
		}
	}
	return out, nil
}

func (i *Interactor) IsModuleUnlocked(ctx context.Context, moduleID string) bool {
	ledger, _ := i.svc.Load(ctx)
	return domain.IsModuleUnlocked(i.svc.Catalog(), ledger, moduleID)
}

func (i *Interactor) IsQuizUnlocked(ctx context.Context, quizID string) bool {
	ledger, _ := i.svc.Load(ctx)
	return domain.IsQuizUnlocked(i.svc.Catalog(), ledger, quizID)
}

func (i *Interactor) StatusOf(ctx context.Context, moduleID string) dto.ModuleStatusOutput {
	ledger, _ := i.svc.Load(ctx)
	return toStatusOutput(i.svc.Catalog(), ledger, moduleID)
}

// ListModules returns every module of subject, or of all subjects when
// subject is empty.
func (i *Interactor) ListModules(ctx context.Context, subject string) []dto.ModuleStatusOutput {
	ledger, _ := i.svc.Load(ctx)
	cat := i.svc.Catalog()
	mods := cat.Modules()
	if subject != "" {
		mods = cat.SubjectModules(subject)
	}
	out := make([]dto.ModuleStatusOutput, 0, len(mods))
	for _, m := range mods {
		out = append(out, toStatusOutput(cat, ledger, m.ModuleID))
	}
	return out
}

func (i *Interactor) Snapshot(ctx context.Context) dto.LedgerOutput {
	ledger, state := i.svc.Load(ctx)
	cat := i.svc.Catalog()
	out := dto.LedgerOutput{
		CompletedModules: append([]string(nil), ledger.CompletedModules...),
		CurrentModule:    ledger.CurrentModule,
		LastAccessed:     ledger.LastAccessed,
		LoadState:        state.String(),
	}
	for _, rec := range ledger.CompletedQuizzes {
		m, _ := cat.ModuleForQuiz(rec.QuizID)
		out.Quizzes = append(out.Quizzes, dto.QuizResultOutput{
			QuizID:      rec.QuizID,
			ModuleID:    m.ModuleID,
			Subject:     m.Subject,
			Title:       m.QuizTitle,
			Score:       rec.Score,
			CompletedAt: rec.CompletedAt,
		})
	}
	return out
}

func (i *Interactor) Reindex(ctx context.Context) (int, error) {
	return i.svc.Reindex(ctx)
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.svc.Reset(ctx)
}

func toStatusOutput(cat *catalog.Catalog, ledger domain.Ledger, moduleID string) dto.ModuleStatusOutput {
	st := domain.StatusOf(cat, ledger, moduleID)
	return dto.ModuleStatusOutput{
		ModuleID:       moduleID,
		QuizID:         st.Module.QuizID,
		Subject:        st.Module.Subject,
		Title:          st.Module.Title,
		QuizTitle:      st.Module.QuizTitle,
		Sequence:       st.Module.SequenceIndex,
		Known:          st.Known,
		Unlocked:       st.Unlocked,
		Read:           st.Read,
		QuizUnlocked:   st.Known && domain.IsQuizUnlocked(cat, ledger, st.Module.QuizID),
		QuizCompleted:  st.QuizCompleted,
		FullyCompleted: st.FullyCompleted,
		BestScore:      st.Best.Score,
		CompletedAt:    st.Best.CompletedAt,
	}
}
