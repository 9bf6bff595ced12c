package service

import (
	"context"
	"fmt"
	"log/slog"

	"urworld/internal/modules/progress/domain"
	progressout "urworld/internal/modules/progress/port/out"
	"urworld/internal/platform/catalog"
	"urworld/internal/platform/clock"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/kvstore"
	"urworld/internal/platform/logging"
)

type LedgerService struct {
	clock     clock.Clock
	catalog   *catalog.Catalog
	store     progressout.LedgerStore
	projector progressout.LedgerProjector
	logger    *slog.Logger
}

func NewLedgerService(clk clock.Clock, cat *catalog.Catalog, store progressout.LedgerStore, projector progressout.LedgerProjector, logger *slog.Logger) *LedgerService {
	return &LedgerService{clock: clk, catalog: cat, store: store, projector: projector, logger: logging.OrDiscard(logger)}
}

func (s *LedgerService) Catalog() *catalog.Catalog { return s.catalog }

// Load never fails: missing or corrupt documents yield an empty ledger.
func (s *LedgerService) Load(ctx context.Context) (domain.Ledger, kvstore.State) {
	res := s.store.Load(ctx)
	if res.State == kvstore.StateCorrupt {
		s.logger.Warn("ledger unreadable, starting empty", "error", res.Err)
	}
	return res.Value.Normalize(), res.State
}

// persist logs and drops write failures; the caller's in-memory ledger
// stays authoritative for the rest of the run.
func (s *LedgerService) persist(ctx context.Context, ledger domain.Ledger) {
	if err := s.store.Save(ctx, ledger); err != nil {
		s.logger.Warn("ledger write dropped", "error", err)
	}
}

func (s *LedgerService) MarkModuleRead(ctx context.Context, moduleID string) (domain.Ledger, catalog.ModuleDescriptor, bool, error) {
	ledger, _ := s.Load(ctx)
	m, ok := s.catalog.Module(moduleID)
	if !ok {
		return ledger, catalog.ModuleDescriptor{}, false, fmt.Errorf("%w: module %q", apperrors.ErrNotFound, moduleID)
	}
	if !domain.IsModuleUnlocked(s.catalog, ledger, moduleID) {
		return ledger, m, false, fmt.Errorf("%w: module %q", apperrors.ErrLocked, moduleID)
	}
	now := s.clock.Now()
	if !ledger.MarkModuleRead(moduleID, now) {
		return ledger, m, false, nil
	}
	s.persist(ctx, ledger)
	s.project(ctx, func(p progressout.LedgerProjector) error {
		return p.UpsertModuleRead(ctx, m.ModuleID, m.Subject, now)
	})
	return ledger, m, true, nil
}

// RecordQuiz returns the ledger before and after the write so callers can
// diff unlock state.
func (s *LedgerService) RecordQuiz(ctx context.Context, quizID string, score int) (before, after domain.Ledger, improved bool, err error) {
	if err := domain.ValidateScore(score); err != nil {
		return domain.Ledger{}, domain.Ledger{}, false, err
	}
	m, ok := s.catalog.ModuleForQuiz(quizID)
	if !ok {
		return domain.Ledger{}, domain.Ledger{}, false, fmt.Errorf("%w: quiz %q", apperrors.ErrNotFound, quizID)
	}
	before, _ = s.Load(ctx)
	after = before.Normalize()
	improved, err = after.RecordQuiz(quizID, score, s.clock.Now())
	if err != nil {
		return before, before, false, err
	}
	s.persist(ctx, after)
	rec, _ := after.Quiz(quizID)
	s.project(ctx, func(p progressout.LedgerProjector) error {
		return p.UpsertQuizResult(ctx, rec, m.ModuleID, m.Subject)
	})
	return before, after, improved, nil
}

// Reindex rebuilds the projection from the stored ledger.
func (s *LedgerService) Reindex(ctx context.Context) (int, error) {
	if s.projector == nil {
		return 0, fmt.Errorf("ledger projector is not configured")
	}
	ledger, _ := s.Load(ctx)
	if err := s.projector.Reset(ctx); err != nil {
		return 0, err
	}
	rows := 0
	for _, moduleID := range ledger.CompletedModules {
		m, ok := s.catalog.Module(moduleID)
		if !ok {
			continue
		}
		if err := s.projector.UpsertModuleRead(ctx, m.ModuleID, m.Subject, ledger.LastAccessed); err != nil {
			return rows, err
		}
		rows++
	}
	for _, rec := range ledger.CompletedQuizzes {
		m, ok := s.catalog.ModuleForQuiz(rec.QuizID)
		if !ok {
			continue
		}
		if err := s.projector.UpsertQuizResult(ctx, rec, m.ModuleID, m.Subject); err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

func (s *LedgerService) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	if s.projector != nil {
		if err := s.projector.Reset(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *LedgerService) project(ctx context.Context, fn func(progressout.LedgerProjector) error) {
	if s.projector == nil {
		return
	}
	if err := fn(s.projector); err != nil {
		s.logger.Warn("ledger projection failed", "error", err)
	}
}
