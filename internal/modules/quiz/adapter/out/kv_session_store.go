package out

import (
	"context"
	"fmt"
	"sync"
	"time"

	"urworld/internal/modules/quiz/domain"
	quizout "urworld/internal/modules/quiz/port/out"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/kvstore"
)

const (
	sessionSuffix        = "_score"
	sessionSchemaVersion = 1
)

const sessionSchema = `{
  "type": "object",
  "properties": {
    "schemaVersion": {"type": "integer", "minimum": 0},
    "attemptId": {"type": "string", "minLength": 1},
    "quizId": {"type": "string", "minLength": 1},
    "moduleId": {"type": "string"},
    "questionIndex": {"type": "integer", "minimum": 0},
    "totalQuestions": {"type": "integer", "minimum": 1},
    "correctCount": {"type": "integer", "minimum": 0},
    "startTime": {"type": "string"},
    "endTime": {"type": ["string", "null"]},
    "state": {"enum": ["awaiting_answer", "answer_revealed", "completed"]},
    "answers": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "question": {"type": "integer", "minimum": 0},
          "choice": {"type": "integer", "minimum": 0},
          "correct": {"type": "boolean"}
        },
        "required": ["question", "correct"]
      }
    }
  },
  "required": ["attemptId", "quizId", "totalQuestions", "state"]
}`

type answerJSON struct {
	Question int  `json:"question"`
	Choice   int  `json:"choice"`
	Correct  bool `json:"correct"`
}

type attemptJSON struct {
	SchemaVersion  int          `json:"schemaVersion"`
	AttemptID      string       `json:"attemptId"`
	QuizID         string       `json:"quizId"`
	ModuleID       string       `json:"moduleId"`
	QuestionIndex  int          `json:"questionIndex"`
	TotalQuestions int          `json:"totalQuestions"`
	CorrectCount   int          `json:"correctCount"`
	StartTime      string       `json:"startTime"`
	EndTime        *string      `json:"endTime"`
	State          string       `json:"state"`
	Answers        []answerJSON `json:"answers"`
}

// KVSessionStore keeps one attempt document per quiz under "<baseQuizId>_score".
type KVSessionStore struct {
	store kvstore.Store
	mu    sync.Mutex
	docs  map[string]*kvstore.Typed[attemptJSON]
}

func NewKVSessionStore(store kvstore.Store) quizout.SessionStore {
	return &KVSessionStore{store: store, docs: map[string]*kvstore.Typed[attemptJSON]{}}
}

func SessionKey(quizID string) string {
	return domain.BaseID(quizID) + sessionSuffix
}

func (s *KVSessionStore) doc(quizID string) (*kvstore.Typed[attemptJSON], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := SessionKey(quizID)
	if d, ok := s.docs[key]; ok {
		return d, nil
	}
	d, err := kvstore.NewTyped(s.store, key, sessionSchema, func() attemptJSON { return attemptJSON{} })
	if err != nil {
		return nil, err
	}
	d.WithVersion(sessionSchemaVersion)
	s.docs[key] = d
	return d, nil
}

func (s *KVSessionStore) Load(ctx context.Context, quizID string) (domain.Attempt, error) {
	d, err := s.doc(quizID)
	if err != nil {
		return domain.Attempt{}, err
	}
	res := d.Load(ctx)
	switch res.State {
	case kvstore.StateMissing:
		return domain.Attempt{}, apperrors.ErrNotFound
	case kvstore.StateCorrupt:
		return domain.Attempt{}, res.Err
	}
	return fromJSON(res.Value)
}

func (s *KVSessionStore) Save(ctx context.Context, a domain.Attempt) error {
	d, err := s.doc(a.QuizID)
	if err != nil {
		return err
	}
	return d.Save(ctx, toJSON(a))
}

func (s *KVSessionStore) Delete(ctx context.Context, quizID string) error {
	d, err := s.doc(quizID)
	if err != nil {
		return err
	}
	return d.Clear(ctx)
}

func toJSON(a domain.Attempt) attemptJSON {
	out := attemptJSON{
		SchemaVersion:  sessionSchemaVersion,
		AttemptID:      a.ID,
		QuizID:         a.QuizID,
		ModuleID:       a.ModuleID,
		QuestionIndex:  a.QuestionIndex,
		TotalQuestions: a.TotalQuestions,
		CorrectCount:   a.CorrectCount,
		StartTime:      a.StartedAt.UTC().Format(time.RFC3339Nano),
		State:          a.State.String(),
		Answers:        make([]answerJSON, 0, len(a.Answers)),
	}
	if !a.FinishedAt.IsZero() {
		end := a.FinishedAt.UTC().Format(time.RFC3339Nano)
		out.EndTime = &end
	}
	for _, ans := range a.Answers {
		out.Answers = append(out.Answers, answerJSON{Question: ans.Question, Choice: ans.Choice, Correct: ans.Correct})
	}
	return out
}

func fromJSON(j attemptJSON) (domain.Attempt, error) {
	state, err := domain.ParseState(j.State)
	if err != nil {
		return domain.Attempt{}, err
	}
	start, err := time.Parse(time.RFC3339Nano, j.StartTime)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("parse attempt start: %w", err)
	}
	a := domain.Attempt{
		ID:             j.AttemptID,
		QuizID:         j.QuizID,
		ModuleID:       j.ModuleID,
		QuestionIndex:  j.QuestionIndex,
		TotalQuestions: j.TotalQuestions,
		CorrectCount:   j.CorrectCount,
		StartedAt:      start,
		State:          state,
	}
	if j.EndTime != nil {
		if end, err := time.Parse(time.RFC3339Nano, *j.EndTime); err == nil {
			a.FinishedAt = end
		}
	}
	for _, ans := range j.Answers {
		a.Answers = append(a.Answers, domain.Answer{Question: ans.Question, Choice: ans.Choice, Correct: ans.Correct})
	}
	if a.QuestionIndex >= a.TotalQuestions {
		return domain.Attempt{}, fmt.Errorf("question index %d out of range", a.QuestionIndex)
	}
	return a, nil
}
