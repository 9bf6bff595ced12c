package in

import (
	"context"

	backupdto "urworld/internal/modules/backup/dto"
	backupin "urworld/internal/modules/backup/port/in"
)

type CLIHandler struct {
	usecase backupin.Usecase
}

func NewCLIHandler(usecase backupin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context, format, dir string) (backupdto.ExportOutput, error) {
	return h.usecase.Export(ctx, backupdto.ExportInput{Format: format, Dir: dir})
}

func (h CLIHandler) Clear(ctx context.Context) (backupdto.ClearOutput, error) {
	return h.usecase.ClearProgress(ctx)
}
