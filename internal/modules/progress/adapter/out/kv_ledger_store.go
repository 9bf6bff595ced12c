package out

import (
	"context"
	"time"

	"urworld/internal/modules/progress/domain"
	progressout "urworld/internal/modules/progress/port/out"
	"urworld/internal/platform/kvstore"
)

const LedgerKey = "urworld_module_progress"

const ledgerSchema = `{
  "type": "object",
  "properties": {
    "schemaVersion": {"type": "integer", "minimum": 0},
    "completedModules": {"type": ["array", "null"], "items": {"type": "string"}},
    "completedQuizzes": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "quizId": {"type": "string", "minLength": 1},
          "score": {"type": "number", "minimum": 0, "maximum": 100},
          "completedAt": {"type": ["string", "null"]}
        },
        "required": ["quizId", "score"]
      }
    },
    "currentModule": {"type": ["string", "null"]},
    "lastAccessed": {"type": ["string", "null"]}
  }
}`

type quizRecordJSON struct {
	QuizID      string  `json:"quizId"`
	Score       float64 `json:"score"`
	CompletedAt *string `json:"completedAt"`
}

type ledgerJSON struct {
	SchemaVersion    int              `json:"schemaVersion"`
	CompletedModules []string         `json:"completedModules"`
	CompletedQuizzes []quizRecordJSON `json:"completedQuizzes"`
	CurrentModule    *string          `json:"currentModule"`
	LastAccessed     *string          `json:"lastAccessed"`
}

type KVLedgerStore struct {
	doc *kvstore.Typed[ledgerJSON]
}

func NewKVLedgerStore(store kvstore.Store) (progressout.LedgerStore, error) {
	doc, err := kvstore.NewTyped(store, LedgerKey, ledgerSchema, func() ledgerJSON {
		return ledgerJSON{CompletedModules: []string{}, CompletedQuizzes: []quizRecordJSON{}}
	})
	if err != nil {
		return nil, err
	}
	return &KVLedgerStore{doc: doc.WithVersion(domain.SchemaVersion)}, nil
}

func (s *KVLedgerStore) Load(ctx context.Context) kvstore.Result[domain.Ledger] {
	res := s.doc.Load(ctx)
	return kvstore.Result[domain.Ledger]{Value: fromJSON(res.Value), State: res.State, Err: res.Err}
}

func (s *KVLedgerStore) Save(ctx context.Context, ledger domain.Ledger) error {
	return s.doc.Save(ctx, toJSON(ledger))
}

func (s *KVLedgerStore) Clear(ctx context.Context) error {
	return s.doc.Clear(ctx)
}

func toJSON(l domain.Ledger) ledgerJSON {
	out := ledgerJSON{
		SchemaVersion:    domain.SchemaVersion,
		CompletedModules: append([]string{}, l.CompletedModules...),
		CompletedQuizzes: make([]quizRecordJSON, 0, len(l.CompletedQuizzes)),
	}
	for _, r := range l.CompletedQuizzes {
		out.CompletedQuizzes = append(out.CompletedQuizzes, quizRecordJSON{
			QuizID:      r.QuizID,
			Score:       float64(r.Score),
			CompletedAt: formatTime(r.CompletedAt),
		})
	}
	if l.CurrentModule != "" {
		current := l.CurrentModule
		out.CurrentModule = &current
	}
	out.LastAccessed = formatTime(l.LastAccessed)
	return out
}

func fromJSON(j ledgerJSON) domain.Ledger {
	out := domain.Ledger{CompletedModules: append([]string(nil), j.CompletedModules...)}
	for _, r := range j.CompletedQuizzes {
		out.CompletedQuizzes = append(out.CompletedQuizzes, domain.QuizRecord{
			QuizID:      r.QuizID,
			Score:       int(r.Score + 0.5),
			CompletedAt: parseTime(r.CompletedAt),
		})
	}
	if j.CurrentModule != nil {
		out.CurrentModule = *j.CurrentModule
	}
	out.LastAccessed = parseTime(j.LastAccessed)
	return out
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func parseTime(s *string) time.Time {
	if s == nil || *s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return time.Time{}
	}
	return t
}
