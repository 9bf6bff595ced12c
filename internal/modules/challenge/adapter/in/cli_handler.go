package in

import (
	"context"

	challengedto "urworld/internal/modules/challenge/dto"
	challengein "urworld/internal/modules/challenge/port/in"
)

type CLIHandler struct {
	usecase challengein.Usecase
}

func NewCLIHandler(usecase challengein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Today(ctx context.Context) (challengedto.ChallengeOutput, error) {
	return h.usecase.Today(ctx)
}

func (h CLIHandler) Progress(ctx context.Context, challengeType string, value int) (challengedto.ChallengeOutput, error) {
	return h.usecase.UpdateProgress(ctx, challengedto.UpdateInput{Type: challengeType, Value: value})
}
