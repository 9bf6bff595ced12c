package service

import (
	"context"
	"log/slog"

	"urworld/internal/modules/challenge/domain"
	challengeout "urworld/internal/modules/challenge/port/out"
	"urworld/internal/platform/clock"
	"urworld/internal/platform/kvstore"
	"urworld/internal/platform/logging"
)

type ChallengeService struct {
	clock  clock.Clock
	store  challengeout.ChallengeStore
	logger *slog.Logger
}

func NewChallengeService(clk clock.Clock, store challengeout.ChallengeStore, logger *slog.Logger) *ChallengeService {
	return &ChallengeService{clock: clk, store: store, logger: logging.OrDiscard(logger)}
}

// Current returns today's challenge, replacing and persisting a stale or
// unreadable one.
func (s *ChallengeService) Current(ctx context.Context) (domain.Challenge, bool, kvstore.State) {
	res := s.store.Load(ctx)
	now := s.clock.Now()
	c := res.Value
	if res.State == kvstore.StateCorrupt {
		s.logger.Warn("daily challenge unreadable, regenerating", "error", res.Err)
	}
	if res.State != kvstore.StateOk || c.Stale(now) {
		c = domain.Generate(now)
		s.save(ctx, c)
		return c, true, res.State
	}
	c.Normalize()
	return c, false, res.State
}

type UpdateResult struct {
	Challenge   domain.Challenge
	Regenerated bool
	Changed     bool
	Completed   bool
	// Payout is true when this call flipped the rewarded latch and the
	// caller owes the reward.
	Payout bool
	State  kvstore.State
}

func (s *ChallengeService) Update(ctx context.Context, t domain.Type, value int) UpdateResult {
	c, regenerated, state := s.Current(ctx)
	changed, completed := c.Update(t, value)
	res := UpdateResult{Regenerated: regenerated, Changed: changed, Completed: completed, State: state}
	if c.Completed && !c.Rewarded {
		c.Rewarded = true
		res.Payout = true
		changed = true
	}
	if changed {
		s.save(ctx, c)
	}
	res.Challenge = c
	return res
}

func (s *ChallengeService) Reset(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *ChallengeService) save(ctx context.Context, c domain.Challenge) {
	if err := s.store.Save(ctx, c); err != nil {
		s.logger.Warn("daily challenge write dropped", "error", err)
	}
}
