package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"urworld/internal/modules/challenge/domain"
	"urworld/internal/modules/challenge/dto"
	challengein "urworld/internal/modules/challenge/port/in"
	challengeout "urworld/internal/modules/challenge/port/out"
	"urworld/internal/modules/challenge/service"
	"urworld/internal/platform/clock"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/events"
	"urworld/internal/platform/kvstore"
	"urworld/internal/platform/logging"
)

type Interactor struct {
	svc       *service.ChallengeService
	clock     clock.Clock
	rewards   challengeout.RewardSink
	publisher events.Publisher
	logger    *slog.Logger
}

func NewInteractor(svc *service.ChallengeService, clk clock.Clock, rewards challengeout.RewardSink, publisher events.Publisher, logger *slog.Logger) challengein.Usecase {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Interactor{svc: svc, clock: clk, rewards: rewards, publisher: publisher, logger: logging.OrDiscard(logger)}
}

func (i *Interactor) Today(ctx context.Context) (dto.ChallengeOutput, error) {
	c, regenerated, state := i.svc.Current(ctx)
	out := toOutput(c, state)
	out.Regenerated = regenerated
	return out, nil
}

func (i *Interactor) UpdateProgress(ctx context.Context, input dto.UpdateInput) (dto.ChallengeOutput, error) {
	t := domain.Type(input.Type)
	if !t.Valid() {
		return dto.ChallengeOutput{}, fmt.Errorf("%w: unknown challenge type %q", apperrors.ErrInvalidInput, input.Type)
	}
	res := i.svc.Update(ctx, t, input.Value)
	c := res.Challenge
	out := toOutput(c, res.State)
	out.Regenerated = res.Regenerated
	out.JustCompleted = res.Completed
	now := i.clock.Now()
	if res.Completed {
		i.publisher.Publish(ctx, events.Event{Type: events.ChallengeCompleted, Subject: c.ID, Title: c.Title, At: now})
	}
	if res.Payout {
		if i.rewards == nil {
			i.logger.Warn("challenge reward has no sink", "challenge", c.ID, "points", c.RewardPoints)
			return out, nil
		}
		if err := i.rewards.Credit(ctx, c.RewardPoints, "Daily challenge: "+c.Title); err != nil {
			i.logger.Warn("challenge reward dropped", "challenge", c.ID, "error", err)
			return out, nil
		}
		out.RewardCredited = true
		i.publisher.Publish(ctx, events.Event{
			Type:    events.ChallengeRewarded,
			Subject: c.ID,
			Title:   c.Title,
			Data:    map[string]any{"points": c.RewardPoints},
			At:      now,
		})
	}
	return out, nil
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.svc.Reset(ctx)
}

func toOutput(c domain.Challenge, state kvstore.State) dto.ChallengeOutput {
	return dto.ChallengeOutput{
		ID:           c.ID,
		Type:         string(c.Type),
		Title:        c.Title,
		Description:  c.Description,
		Target:       c.Target,
		Progress:     c.Progress,
		RewardPoints: c.RewardPoints,
		Completed:    c.Completed,
		Rewarded:     c.Rewarded,
		Date:         c.Date,
		LoadState:    state.String(),
	}
}
