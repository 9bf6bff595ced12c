package out

import (
	"context"

	"urworld/internal/modules/quiz/domain"
	"urworld/internal/platform/catalog"
	"urworld/internal/platform/kvstore"
)

// SessionStore keeps in-progress attempts keyed by base quiz id. Load
// returns apperrors.ErrNotFound when no attempt is stored.
type SessionStore interface {
	Load(ctx context.Context, quizID string) (domain.Attempt, error)
	Save(ctx context.Context, attempt domain.Attempt) error
	Delete(ctx context.Context, quizID string) error
}

type HistoryStore interface {
	Load(ctx context.Context) kvstore.Result[domain.History]
	Save(ctx context.Context, history domain.History) error
	Clear(ctx context.Context) error
}

type AttemptNote struct {
	Attempt   domain.Attempt
	Module    catalog.ModuleDescriptor
	Questions []catalog.Question
	Score     int
	Stars     int
	Passed    bool
	Seconds   int
}

type NoteWriter interface {
	WriteAttempt(ctx context.Context, note AttemptNote) (string, error)
}
