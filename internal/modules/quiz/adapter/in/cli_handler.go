package in

import (
	"context"

	quizdto "urworld/internal/modules/quiz/dto"
	quizin "urworld/internal/modules/quiz/port/in"
)

type CLIHandler struct {
	usecase quizin.Usecase
}

func NewCLIHandler(usecase quizin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, quizID string) (quizdto.QuestionView, error) {
	return h.usecase.Start(ctx, quizID)
}

// Answer takes the option number as printed, starting at 1.
func (h CLIHandler) Answer(ctx context.Context, quizID string, option int) (quizdto.QuestionView, error) {
	return h.usecase.Answer(ctx, quizdto.AnswerInput{QuizID: quizID, Choice: option - 1})
}

func (h CLIHandler) Next(ctx context.Context, quizID string) (quizdto.StepOutput, error) {
	return h.usecase.Next(ctx, quizID)
}

func (h CLIHandler) Show(ctx context.Context, quizID string) (quizdto.QuestionView, error) {
	return h.usecase.Current(ctx, quizID)
}

func (h CLIHandler) Abandon(ctx context.Context, quizID string) error {
	return h.usecase.Abandon(ctx, quizID)
}

func (h CLIHandler) History(ctx context.Context, quizID string) (quizdto.HistoryOutput, error) {
	return h.usecase.History(ctx, quizID)
}
