package out

import (
	"context"

	"urworld/internal/modules/profile/domain"
	"urworld/internal/platform/kvstore"
)

type ProfileStore interface {
	Load(ctx context.Context) kvstore.Result[domain.Profile]
	Save(ctx context.Context, profile domain.Profile) error
	Clear(ctx context.Context) error
}

// ReportWriter stores a rendered summary and returns where it went.
type ReportWriter interface {
	WriteSummary(ctx context.Context, summary string) (string, error)
}
