package out

import (
	"context"
	"time"

	"urworld/internal/modules/quiz/domain"
	quizout "urworld/internal/modules/quiz/port/out"
	"urworld/internal/platform/kvstore"
)

const HistoryKey = "urworld_quiz_history"

const historySchema = `{
  "type": "object",
  "additionalProperties": {
    "type": "array",
    "items": {
      "type": "object",
      "properties": {
        "score": {"type": "number", "minimum": 0, "maximum": 100},
        "time": {"type": "number", "minimum": 0},
        "date": {"type": "string"},
        "perfectScore": {"type": "boolean"},
        "answers": {"type": ["array", "null"]}
      },
      "required": ["score"]
    }
  }
}`

type historyAnswerJSON struct {
	Question int  `json:"question"`
	Choice   int  `json:"choice"`
	Correct  bool `json:"correct"`
}

type historyEntryJSON struct {
	Score        float64             `json:"score"`
	Time         int                 `json:"time"`
	Date         string              `json:"date"`
	PerfectScore bool                `json:"perfectScore"`
	Answers      []historyAnswerJSON `json:"answers"`
}

// KVHistoryStore keeps the blob keyed by base quiz id, the same shape the
// web client wrote.
type KVHistoryStore struct {
	doc *kvstore.Typed[map[string][]historyEntryJSON]
}

func NewKVHistoryStore(store kvstore.Store) (quizout.HistoryStore, error) {
	doc, err := kvstore.NewTyped(store, HistoryKey, historySchema, func() map[string][]historyEntryJSON {
		return map[string][]historyEntryJSON{}
	})
	if err != nil {
		return nil, err
	}
	return &KVHistoryStore{doc: doc}, nil
}

func (s *KVHistoryStore) Load(ctx context.Context) kvstore.Result[domain.History] {
	res := s.doc.Load(ctx)
	h := domain.History{}
	for quiz, entries := range res.Value {
		for _, e := range entries {
			entry := domain.HistoryEntry{
				Score:        int(e.Score + 0.5),
				Seconds:      e.Time,
				PerfectScore: e.PerfectScore,
			}
			if t, err := time.Parse(time.RFC3339Nano, e.Date); err == nil {
				entry.Date = t
			}
			for _, a := range e.Answers {
				entry.Answers = append(entry.Answers, domain.Answer{Question: a.Question, Choice: a.Choice, Correct: a.Correct})
			}
			h[quiz] = append(h[quiz], entry)
		}
	}
	return kvstore.Result[domain.History]{Value: h, State: res.State, Err: res.Err}
}

func (s *KVHistoryStore) Save(ctx context.Context, h domain.History) error {
	out := make(map[string][]historyEntryJSON, len(h))
	for quiz, entries := range h {
		list := make([]historyEntryJSON, 0, len(entries))
		for _, e := range entries {
			j := historyEntryJSON{
				Score:        float64(e.Score),
				Time:         e.Seconds,
				Date:         e.Date.UTC().Format(time.RFC3339Nano),
				PerfectScore: e.PerfectScore,
				Answers:      make([]historyAnswerJSON, 0, len(e.Answers)),
			}
			for _, a := range e.Answers {
				j.Answers = append(j.Answers, historyAnswerJSON{Question: a.Question, Choice: a.Choice, Correct: a.Correct})
			}
			list = append(list, j)
		}
		out[quiz] = list
	}
	return s.doc.Save(ctx, out)
}

func (s *KVHistoryStore) Clear(ctx context.Context) error {
	return s.doc.Clear(ctx)
}
