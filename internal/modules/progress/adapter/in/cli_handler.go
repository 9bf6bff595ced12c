package in

import (
	"context"

	progressdto "urworld/internal/modules/progress/dto"
	progressin "urworld/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Read(ctx context.Context, moduleID string) (progressdto.MarkReadOutput, error) {
	return h.usecase.MarkModuleRead(ctx, moduleID)
}

func (h CLIHandler) Record(ctx context.Context, quizID string, score int) (progressdto.RecordQuizOutput, error) {
	return h.usecase.RecordQuizResult(ctx, progressdto.RecordQuizInput{QuizID: quizID, Score: score})
}

func (h CLIHandler) Status(ctx context.Context, moduleID string) progressdto.ModuleStatusOutput {
	return h.usecase.StatusOf(ctx, moduleID)
}

func (h CLIHandler) List(ctx context.Context, subject string) []progressdto.ModuleStatusOutput {
	return h.usecase.ListModules(ctx, subject)
}

func (h CLIHandler) Snapshot(ctx context.Context) progressdto.LedgerOutput {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) Reindex(ctx context.Context) (int, error) {
	return h.usecase.Reindex(ctx)
}
