package in

import (
	"context"

	"urworld/internal/modules/profile/dto"
)

type Usecase interface {
	// Refresh is the page-load pass: streak, recompute, persist.
	Refresh(ctx context.Context) (dto.ProfileOutput, error)
	Get(ctx context.Context) (dto.ProfileOutput, error)
	Rename(ctx context.Context, name string) (dto.ProfileOutput, error)
	RecordQuizCompletion(ctx context.Context, input dto.QuizCompletionInput) (dto.ProfileOutput, error)
	CreditPoints(ctx context.Context, input dto.CreditInput) (dto.ProfileOutput, error)
	Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error)
	WriteReport(ctx context.Context) (string, error)
	Reset(ctx context.Context) error
}
