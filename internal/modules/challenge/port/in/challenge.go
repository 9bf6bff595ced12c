package in

import (
	"context"

	"urworld/internal/modules/challenge/dto"
)

type Usecase interface {
	Today(ctx context.Context) (dto.ChallengeOutput, error)
	UpdateProgress(ctx context.Context, input dto.UpdateInput) (dto.ChallengeOutput, error)
	Reset(ctx context.Context) error
}
