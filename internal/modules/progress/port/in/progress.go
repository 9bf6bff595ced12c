package in

import (
	"context"

	"urworld/internal/modules/progress/dto"
)

type Usecase interface {
	MarkModuleRead(ctx context.Context, moduleID string) (dto.MarkReadOutput, error)
	RecordQuizResult(ctx context.Context, input dto.RecordQuizInput) (dto.RecordQuizOutput, error)
	IsModuleUnlocked(ctx context.Context, moduleID string) bool
	IsQuizUnlocked(ctx context.Context, quizID string) bool
	StatusOf(ctx context.Context, moduleID string) dto.ModuleStatusOutput
	ListModules(ctx context.Context, subject string) []dto.ModuleStatusOutput
	Snapshot(ctx context.Context) dto.LedgerOutput
	Reindex(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}
