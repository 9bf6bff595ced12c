package out

import (
	"context"

	"urworld/internal/modules/challenge/domain"
	"urworld/internal/platform/kvstore"
)

type ChallengeStore interface {
	Load(ctx context.Context) kvstore.Result[domain.Challenge]
	Save(ctx context.Context, challenge domain.Challenge) error
	Clear(ctx context.Context) error
}

// RewardSink receives the one-time payout of a completed challenge.
type RewardSink interface {
	Credit(ctx context.Context, amount int, reason string) error
}
