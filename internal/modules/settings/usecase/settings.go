package usecase

import (
	"context"

	"urworld/internal/modules/settings/domain"
	"urworld/internal/modules/settings/dto"
	settingsin "urworld/internal/modules/settings/port/in"
	"urworld/internal/modules/settings/service"
	"urworld/internal/platform/kvstore"
)

type Interactor struct {
	svc *service.SettingsService
}

func NewInteractor(svc *service.SettingsService) settingsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) dto.SettingsOutput {
	s, state := i.svc.Load(ctx)
	return toOutput(s, state)
}

func (i *Interactor) Enabled(ctx context.Context, key string) bool {
	s, _ := i.svc.Load(ctx)
	return s.Enabled(key)
}

func (i *Interactor) Set(ctx context.Context, input dto.SetInput) (dto.SettingsOutput, error) {
	key, err := domain.ResolveKey(input.Key)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	value, err := domain.ParseValue(input.Value)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	s, err := i.svc.Set(ctx, key, value)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return toOutput(s, kvstore.StateOk), nil
}

func (i *Interactor) Reset(ctx context.Context) (dto.SettingsOutput, error) {
	s, err := i.svc.Reset(ctx)
	if err != nil {
		return dto.SettingsOutput{}, err
	}
	return toOutput(s, kvstore.StateOk), nil
}

func toOutput(s domain.Settings, state kvstore.State) dto.SettingsOutput {
	out := dto.SettingsOutput{LoadState: state.String()}
	for _, k := range domain.Keys {
		out.Values = append(out.Values, dto.SettingOutput{Key: k, Enabled: s.Enabled(k), Default: domain.Default(k)})
	}
	return out
}
