package out

import (
	"context"

	"urworld/internal/modules/settings/domain"
	"urworld/internal/platform/kvstore"
)

type SettingsStore interface {
	Load(ctx context.Context) kvstore.Result[domain.Settings]
	Save(ctx context.Context, settings domain.Settings) error
	Clear(ctx context.Context) error
}
