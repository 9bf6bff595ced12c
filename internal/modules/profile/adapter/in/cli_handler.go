package in

import (
	"context"

	profiledto "urworld/internal/modules/profile/dto"
	profilein "urworld/internal/modules/profile/port/in"
)

type CLIHandler struct {
	usecase profilein.Usecase
}

func NewCLIHandler(usecase profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Refresh(ctx context.Context) (profiledto.ProfileOutput, error) {
	return h.usecase.Refresh(ctx)
}

func (h CLIHandler) Show(ctx context.Context) (profiledto.ProfileOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) Rename(ctx context.Context, name string) (profiledto.ProfileOutput, error) {
	return h.usecase.Rename(ctx, name)
}

func (h CLIHandler) Leaderboard(ctx context.Context) ([]profiledto.LeaderboardEntry, error) {
	return h.usecase.Leaderboard(ctx)
}

func (h CLIHandler) Report(ctx context.Context) (string, error) {
	return h.usecase.WriteReport(ctx)
}
