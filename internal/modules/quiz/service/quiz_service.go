package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"urworld/internal/modules/quiz/domain"
	quizout "urworld/internal/modules/quiz/port/out"
	"urworld/internal/platform/catalog"
	"urworld/internal/platform/clock"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/id"
	"urworld/internal/platform/kvstore"
	"urworld/internal/platform/logging"
)

type QuizService struct {
	clock    clock.Clock
	ids      id.Generator
	catalog  *catalog.Catalog
	sessions quizout.SessionStore
	history  quizout.HistoryStore
	logger   *slog.Logger
}

func NewQuizService(clk clock.Clock, ids id.Generator, cat *catalog.Catalog, sessions quizout.SessionStore, history quizout.HistoryStore, logger *slog.Logger) *QuizService {
	return &QuizService{clock: clk, ids: ids, catalog: cat, sessions: sessions, history: history, logger: logging.OrDiscard(logger)}
}

func (s *QuizService) Catalog() *catalog.Catalog { return s.catalog }

// Resolve maps a possibly page-suffixed quiz id to its catalog entry.
func (s *QuizService) Resolve(quizID string) (catalog.ModuleDescriptor, []catalog.Question, error) {
	base := domain.BaseID(quizID)
	m, ok := s.catalog.ModuleForQuiz(base)
	if !ok {
		return catalog.ModuleDescriptor{}, nil, fmt.Errorf("%w: quiz %s", apperrors.ErrNotFound, quizID)
	}
	return m, s.catalog.Questions(base), nil
}

// Begin resumes the stored attempt for the quiz or starts a new one.
func (s *QuizService) Begin(ctx context.Context, m catalog.ModuleDescriptor, total int) (domain.Attempt, bool, error) {
	existing, err := s.sessions.Load(ctx, m.QuizID)
	switch {
	case err == nil && existing.State != domain.Completed && existing.TotalQuestions == total:
		return existing, true, nil
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		s.logger.Warn("quiz session unreadable, starting over", "quiz", m.QuizID, "error", err)
	}
	a, err := domain.NewAttempt(s.ids.New(), m.QuizID, m.ModuleID, total, s.clock.Now())
	if err != nil {
		return domain.Attempt{}, false, err
	}
	if err := s.sessions.Save(ctx, a); err != nil {
		return domain.Attempt{}, false, fmt.Errorf("save quiz session: %w", err)
	}
	return a, false, nil
}

func (s *QuizService) Active(ctx context.Context, quizID string) (domain.Attempt, error) {
	a, err := s.sessions.Load(ctx, domain.BaseID(quizID))
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Attempt{}, fmt.Errorf("%w: %s", apperrors.ErrNoActiveAttempt, quizID)
	}
	if err != nil {
		s.logger.Warn("quiz session unreadable", "quiz", quizID, "error", err)
		return domain.Attempt{}, fmt.Errorf("%w: %s", apperrors.ErrNoActiveAttempt, quizID)
	}
	if total := len(s.catalog.Questions(domain.BaseID(quizID))); a.TotalQuestions != total || a.QuestionIndex >= total {
		s.logger.Warn("quiz session does not match the question bank, discarding", "quiz", quizID, "questions", total, "stored", a.TotalQuestions, "index", a.QuestionIndex)
		if err := s.sessions.Delete(ctx, domain.BaseID(quizID)); err != nil {
			s.logger.Warn("quiz session cleanup failed", "quiz", quizID, "error", err)
		}
		return domain.Attempt{}, fmt.Errorf("%w: %s", apperrors.ErrNoActiveAttempt, quizID)
	}
	return a, nil
}

func (s *QuizService) Save(ctx context.Context, a domain.Attempt) error {
	if err := s.sessions.Save(ctx, a); err != nil {
		return fmt.Errorf("save quiz session: %w", err)
	}
	return nil
}

// Finish appends the completed attempt to the history and drops the session.
func (s *QuizService) Finish(ctx context.Context, a domain.Attempt) domain.HistoryEntry {
	entry := domain.EntryFor(a, s.clock.Now())
	h, _ := s.History(ctx)
	h.Append(a.QuizID, entry)
	if err := s.history.Save(ctx, h); err != nil {
		s.logger.Warn("quiz history write dropped", "quiz", a.QuizID, "error", err)
	}
	if err := s.sessions.Delete(ctx, a.QuizID); err != nil {
		s.logger.Warn("quiz session cleanup failed", "quiz", a.QuizID, "error", err)
	}
	return entry
}

func (s *QuizService) Abandon(ctx context.Context, quizID string) error {
	if _, err := s.Active(ctx, quizID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, domain.BaseID(quizID))
}

func (s *QuizService) History(ctx context.Context) (domain.History, kvstore.State) {
	res := s.history.Load(ctx)
	if res.State == kvstore.StateCorrupt {
		s.logger.Warn("quiz history unreadable, starting fresh", "error", res.Err)
	}
	h := res.Value
	if h == nil {
		h = domain.History{}
	}
	return h, res.State
}

func (s *QuizService) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}
