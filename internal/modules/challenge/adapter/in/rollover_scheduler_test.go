package in_test

import (
	"context"
	"testing"
	"time"

	challengein "urworld/internal/modules/challenge/adapter/in"
	"urworld/internal/modules/challenge/dto"
)

type countingUsecase struct{ today int }

func (c *countingUsecase) Today(context.Context) (dto.ChallengeOutput, error) {
	c.today++
	return dto.ChallengeOutput{ID: "speed_run"}, nil
}

func (c *countingUsecase) UpdateProgress(context.Context, dto.UpdateInput) (dto.ChallengeOutput, error) {
	return dto.ChallengeOutput{}, nil
}

func (c *countingUsecase) Reset(context.Context) error { return nil }

func TestSchedulerTargetsNextMidnight(t *testing.T) {
	t.Parallel()
	uc := &countingUsecase{}
	s := challengein.NewRolloverScheduler(uc, time.UTC, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	next := s.Next()
	if next.IsZero() {
		t.Fatalf("expected a scheduled entry")
	}
	next = next.In(time.UTC)
	if next.Hour() != 0 || next.Minute() != 0 || !next.After(time.Now()) {
		t.Fatalf("expected next UTC midnight, got %v", next)
	}

	s.Rollover(context.Background())
	if uc.today != 1 {
		t.Fatalf("rollover should load today's challenge once, got %d", uc.today)
	}
}
