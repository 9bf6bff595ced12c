package in

import (
	"context"

	"urworld/internal/modules/backup/dto"
)

type Usecase interface {
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	ClearProgress(ctx context.Context) (dto.ClearOutput, error)
}
