package out

import (
	"context"
	"time"

	"urworld/internal/modules/profile/domain"
	profileout "urworld/internal/modules/profile/port/out"
	"urworld/internal/platform/kvstore"
)

const ProfileKey = "urworld_profile"

const profileSchema = `{
  "type": "object",
  "properties": {
    "schemaVersion": {"type": "integer", "minimum": 0},
    "name": {"type": "string"},
    "joinDate": {"type": ["string", "null"]},
    "level": {"type": "number"},
    "totalPoints": {"type": "number"},
    "bonusPoints": {"type": "number", "minimum": 0},
    "xp": {"type": "number", "minimum": 0},
    "completedModules": {"type": "number"},
    "achievements": {"type": "number"},
    "streak": {"type": "number", "minimum": 0},
    "lastVisit": {"type": ["string", "null"]},
    "fastestQuizSeconds": {"type": "number", "minimum": 0},
    "progress": {"type": ["object", "null"], "additionalProperties": {"type": "number"}},
    "activities": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {"title": {"type": "string"}, "icon": {"type": "string"}, "time": {"type": ["string", "null"]}},
        "required": ["title"]
      }
    },
    "achievementList": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {"id": {"type": "string"}, "unlocked": {"type": "boolean"}},
        "required": ["id", "unlocked"]
      }
    }
  }
}`

type activityJSON struct {
	Title string  `json:"title"`
	Icon  string  `json:"icon"`
	Time  *string `json:"time"`
}

type badgeJSON struct {
	ID         string  `json:"id"`
	Unlocked   bool    `json:"unlocked"`
	UnlockedAt *string `json:"unlockedAt,omitempty"`
}

type profileJSON struct {
	SchemaVersion      int            `json:"schemaVersion"`
	Name               string         `json:"name"`
	JoinDate           *string        `json:"joinDate"`
	Level              int            `json:"level"`
	TotalPoints        int            `json:"totalPoints"`
	BonusPoints        int            `json:"bonusPoints"`
	XP                 int            `json:"xp"`
	CompletedModules   int            `json:"completedModules"`
	Achievements       int            `json:"achievements"`
	Streak             int            `json:"streak"`
	LastVisit          *string        `json:"lastVisit"`
	FastestQuizSeconds int            `json:"fastestQuizSeconds"`
	Progress           map[string]int `json:"progress"`
	Activities         []activityJSON `json:"activities"`
	AchievementList    []badgeJSON    `json:"achievementList"`
}

type KVProfileStore struct {
	doc *kvstore.Typed[profileJSON]
}

func NewKVProfileStore(store kvstore.Store) (profileout.ProfileStore, error) {
	doc, err := kvstore.NewTyped(store, ProfileKey, profileSchema, func() profileJSON {
		return toJSON(domain.New(domain.DefaultName))
	})
	if err != nil {
		return nil, err
	}
	return &KVProfileStore{doc: doc.WithVersion(domain.SchemaVersion)}, nil
}

func (s *KVProfileStore) Load(ctx context.Context) kvstore.Result[domain.Profile] {
	res := s.doc.Load(ctx)
	return kvstore.Result[domain.Profile]{Value: fromJSON(res.Value), State: res.State, Err: res.Err}
}

func (s *KVProfileStore) Save(ctx context.Context, p domain.Profile) error {
	return s.doc.Save(ctx, toJSON(p))
}

func (s *KVProfileStore) Clear(ctx context.Context) error {
	return s.doc.Clear(ctx)
}

func toJSON(p domain.Profile) profileJSON {
	out := profileJSON{
		SchemaVersion:      domain.SchemaVersion,
		Name:               p.Name,
		JoinDate:           formatTime(p.JoinDate),
		Level:              p.Level,
		TotalPoints:        p.TotalPoints,
		BonusPoints:        p.BonusPoints,
		XP:                 p.XP,
		CompletedModules:   p.CompletedModules,
		Achievements:       p.Achievements,
		Streak:             p.Streak,
		FastestQuizSeconds: p.FastestQuizSeconds,
		Progress:           map[string]int{},
		Activities:         []activityJSON{},
		AchievementList:    []badgeJSON{},
	}
	if p.LastVisit != "" {
		v := p.LastVisit
		out.LastVisit = &v
	}
	for k, v := range p.Progress {
		out.Progress[k] = v
	}
	for _, a := range p.Activities {
		out.Activities = append(out.Activities, activityJSON{Title: a.Title, Icon: a.Icon, Time: formatTime(a.At)})
	}
	for _, b := range p.Badges {
		out.AchievementList = append(out.AchievementList, badgeJSON{ID: b.ID, Unlocked: b.Unlocked, UnlockedAt: formatTime(b.UnlockedAt)})
	}
	return out
}

func fromJSON(j profileJSON) domain.Profile {
	p := domain.Profile{
		Name:               j.Name,
		JoinDate:           parseTime(j.JoinDate),
		Level:              j.Level,
		TotalPoints:        j.TotalPoints,
		BonusPoints:        j.BonusPoints,
		XP:                 j.XP,
		CompletedModules:   j.CompletedModules,
		Achievements:       j.Achievements,
		Streak:             j.Streak,
		FastestQuizSeconds: j.FastestQuizSeconds,
		Progress:           map[string]int{},
	}
	if j.LastVisit != nil {
		p.LastVisit = *j.LastVisit
	}
	for k, v := range j.Progress {
		p.Progress[k] = v
	}
	for _, a := range j.Activities {
		p.Activities = append(p.Activities, domain.Activity{Title: a.Title, Icon: a.Icon, At: parseTime(a.Time)})
	}
	for _, b := range j.AchievementList {
		p.Badges = append(p.Badges, domain.BadgeState{ID: b.ID, Unlocked: b.Unlocked, UnlockedAt: parseTime(b.UnlockedAt)})
	}
	return p
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
