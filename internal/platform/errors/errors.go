package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrLocked           = errors.New("locked")
	ErrNoActiveAttempt  = errors.New("no active quiz attempt")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrAnswerPending    = errors.New("current question not answered yet")
	ErrAttemptCompleted = errors.New("quiz attempt already completed")
	ErrInvalidCatalog   = errors.New("invalid catalog")
)
