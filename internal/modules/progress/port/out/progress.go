package out

import (
	"context"
	"time"

	"urworld/internal/modules/progress/domain"
	"urworld/internal/platform/kvstore"
)

type LedgerStore interface {
	Load(ctx context.Context) kvstore.Result[domain.Ledger]
	Save(ctx context.Context, ledger domain.Ledger) error
	Clear(ctx context.Context) error
}

// LedgerProjector mirrors the ledger into a queryable index.
type LedgerProjector interface {
	Reset(ctx context.Context) error
	UpsertModuleRead(ctx context.Context, moduleID, subject string, at time.Time) error
	UpsertQuizResult(ctx context.Context, record domain.QuizRecord, moduleID, subject string) error
}

// ReadObserver is told about first-time module reads.
type ReadObserver interface {
	ModuleRead(ctx context.Context, moduleID string)
}
