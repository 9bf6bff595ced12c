package out

import (
	"context"

	"urworld/internal/modules/challenge/domain"
	challengeout "urworld/internal/modules/challenge/port/out"
	"urworld/internal/platform/kvstore"
)

const ChallengeKey = "urworld_daily_challenge"

const challengeSchemaVersion = 1

const challengeSchema = `{
  "type": "object",
  "properties": {
    "schemaVersion": {"type": "integer", "minimum": 0},
    "id": {"type": "string", "minLength": 1},
    "type": {"enum": ["quiz", "perfect", "module", "speed"]},
    "title": {"type": "string"},
    "description": {"type": "string"},
    "target": {"type": "number", "minimum": 1},
    "progress": {"type": "number", "minimum": 0},
    "rewardPoints": {"type": "number", "minimum": 0},
    "completed": {"type": "boolean"},
    "rewarded": {"type": "boolean"},
    "date": {"type": "string", "minLength": 1}
  },
  "required": ["id", "type", "target", "date"]
}`

type challengeJSON struct {
	SchemaVersion int    `json:"schemaVersion"`
	ID            string `json:"id"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Target        int    `json:"target"`
	Progress      int    `json:"progress"`
	RewardPoints  int    `json:"rewardPoints"`
	Completed     bool   `json:"completed"`
	Rewarded      bool   `json:"rewarded"`
	Date          string `json:"date"`
}

type KVChallengeStore struct {
	doc *kvstore.Typed[challengeJSON]
}

func NewKVChallengeStore(store kvstore.Store) (challengeout.ChallengeStore, error) {
	doc, err := kvstore.NewTyped(store, ChallengeKey, challengeSchema, func() challengeJSON { return challengeJSON{} })
	if err != nil {
		return nil, err
	}
	return &KVChallengeStore{doc: doc.WithVersion(challengeSchemaVersion)}, nil
}

func (s *KVChallengeStore) Load(ctx context.Context) kvstore.Result[domain.Challenge] {
	res := s.doc.Load(ctx)
	j := res.Value
	return kvstore.Result[domain.Challenge]{
		Value: domain.Challenge{
			ID:           j.ID,
			Type:         domain.Type(j.Type),
			Title:        j.Title,
			Description:  j.Description,
			Target:       j.Target,
			Progress:     j.Progress,
			RewardPoints: j.RewardPoints,
			Completed:    j.Completed,
			Rewarded:     j.Rewarded,
			Date:         j.Date,
		},
		State: res.State,
		Err:   res.Err,
	}
}

func (s *KVChallengeStore) Save(ctx context.Context, c domain.Challenge) error {
	return s.doc.Save(ctx, challengeJSON{
		SchemaVersion: challengeSchemaVersion,
		ID:            c.ID,
		Type:          string(c.Type),
		Title:         c.Title,
		Description:   c.Description,
		Target:        c.Target,
		Progress:      c.Progress,
		RewardPoints:  c.RewardPoints,
		Completed:     c.Completed,
		Rewarded:      c.Rewarded,
		Date:          c.Date,
	})
}

func (s *KVChallengeStore) Clear(ctx context.Context) error {
	return s.doc.Clear(ctx)
}
