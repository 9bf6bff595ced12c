package in

import (
	"context"

	settingsdto "urworld/internal/modules/settings/dto"
	settingsin "urworld/internal/modules/settings/port/in"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) settingsdto.SettingsOutput {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Set(ctx context.Context, key, value string) (settingsdto.SettingsOutput, error) {
	return h.usecase.Set(ctx, settingsdto.SetInput{Key: key, Value: value})
}

func (h CLIHandler) Reset(ctx context.Context) (settingsdto.SettingsOutput, error) {
	return h.usecase.Reset(ctx)
}
