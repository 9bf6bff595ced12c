package out

import (
	"context"
	"log/slog"
	"sync"

	challengedto "urworld/internal/modules/challenge/dto"
	challengein "urworld/internal/modules/challenge/port/in"
	"urworld/internal/platform/logging"
)

// ChallengeObserver feeds first-time module reads into the daily challenge.
// The challenge usecase is bound after construction because it depends on
// the profile, which in turn reads the ledger.
type ChallengeObserver struct {
	mu        sync.RWMutex
	challenge challengein.Usecase
	logger    *slog.Logger
}

func NewChallengeObserver(logger *slog.Logger) *ChallengeObserver {
	return &ChallengeObserver{logger: logging.OrDiscard(logger)}
}

func (o *ChallengeObserver) Bind(challenge challengein.Usecase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.challenge = challenge
}

func (o *ChallengeObserver) ModuleRead(ctx context.Context, moduleID string) {
	o.mu.RLock()
	challenge := o.challenge
	o.mu.RUnlock()
	if challenge == nil {
		return
	}
	if _, err := challenge.UpdateProgress(ctx, challengedto.UpdateInput{Type: challengedto.TypeModule, Value: 1}); err != nil {
		o.logger.Warn("challenge update after module read failed", "module", moduleID, "error", err)
	}
}
