package in

import (
	"context"

	"urworld/internal/modules/settings/dto"
)

type Usecase interface {
	List(ctx context.Context) dto.SettingsOutput
	Enabled(ctx context.Context, key string) bool
	Set(ctx context.Context, input dto.SetInput) (dto.SettingsOutput, error)
	Reset(ctx context.Context) (dto.SettingsOutput, error)
}
