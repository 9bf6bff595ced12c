package in

import (
	"context"

	"urworld/internal/modules/quiz/dto"
)

type Usecase interface {
	Start(ctx context.Context, quizID string) (dto.QuestionView, error)
	Answer(ctx context.Context, input dto.AnswerInput) (dto.QuestionView, error)
	Next(ctx context.Context, quizID string) (dto.StepOutput, error)
	Current(ctx context.Context, quizID string) (dto.QuestionView, error)
	Abandon(ctx context.Context, quizID string) error
	History(ctx context.Context, quizID string) (dto.HistoryOutput, error)
	ClearHistory(ctx context.Context) error
}
