package service

import (
	"context"
	"log/slog"
	"time"

	"urworld/internal/modules/profile/domain"
	profileout "urworld/internal/modules/profile/port/out"
	"urworld/internal/platform/catalog"
	"urworld/internal/platform/clock"
	"urworld/internal/platform/kvstore"
	"urworld/internal/platform/logging"
)

type ProfileService struct {
	clock   clock.Clock
	catalog *catalog.Catalog
	store   profileout.ProfileStore
	logger  *slog.Logger
}

func NewProfileService(clk clock.Clock, cat *catalog.Catalog, store profileout.ProfileStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{clock: clk, catalog: cat, store: store, logger: logging.OrDiscard(logger)}
}

func (s *ProfileService) Catalog() *catalog.Catalog { return s.catalog }

func (s *ProfileService) load(ctx context.Context) (domain.Profile, kvstore.State) {
	res := s.store.Load(ctx)
	if res.State == kvstore.StateCorrupt {
		s.logger.Warn("profile unreadable, starting fresh", "error", res.Err)
	}
	p := res.Value
	if p.Name == "" {
		p.Name = domain.DefaultName
	}
	return p, res.State
}

// Apply runs one aggregation pass: load, mutate, streak, recompute, persist.
// Write failures are logged and dropped.
func (s *ProfileService) Apply(ctx context.Context, quizzes []domain.QuizResult, mutate func(p *domain.Profile, now time.Time)) (domain.Profile, []domain.Badge, kvstore.State) {
	p, state := s.load(ctx)
	now := s.clock.Now()
	if p.JoinDate.IsZero() {
		p.JoinDate = now
	}
	if mutate != nil {
		mutate(&p, now)
	}
	p.UpdateStreak(now)
	p, unlocked := domain.Aggregate(p, s.catalog, quizzes, now)
	if err := s.store.Save(ctx, p); err != nil {
		s.logger.Warn("profile write dropped", "error", err)
	}
	return p, unlocked, state
}

// Preview recomputes derived fields without touching storage or badges'
// persisted state.
func (s *ProfileService) Preview(ctx context.Context, quizzes []domain.QuizResult) (domain.Profile, kvstore.State) {
	p, state := s.load(ctx)
	p, _ = domain.Aggregate(p, s.catalog, quizzes, s.clock.Now())
	return p, state
}

func (s *ProfileService) Reset(ctx context.Context) error {
	return s.store.Clear(ctx)
}
