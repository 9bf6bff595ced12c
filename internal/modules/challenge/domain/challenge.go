package domain

import (
	"time"

	"urworld/internal/platform/clock"
)

type Type string

const (
	TypeQuiz    Type = "quiz"
	TypePerfect Type = "perfect"
	TypeModule  Type = "module"
	TypeSpeed   Type = "speed"
)

func (t Type) Valid() bool {
	switch t {
	case TypeQuiz, TypePerfect, TypeModule, TypeSpeed:
		return true
	}
	return false
}

type Template struct {
	ID           string
	Type         Type
	Title        string
	Description  string
	Target       int
	RewardPoints int
}

// Templates is indexed by the date seed; its order is part of the persisted
// contract.
var Templates = []Template{
	{ID: "complete_quiz", Type: TypeQuiz, Title: "Quiz Time", Description: "Complete 1 quiz today", Target: 1, RewardPoints: 50},
	{ID: "perfect_score", Type: TypePerfect, Title: "Perfectionist", Description: "Score 100% on any quiz", Target: 1, RewardPoints: 100},
	{ID: "read_modules", Type: TypeModule, Title: "Bookworm Day", Description: "Read 2 new modules today", Target: 2, RewardPoints: 75},
	{ID: "speed_run", Type: TypeSpeed, Title: "Speed Run", Description: "Finish a quiz in 60 seconds or less", Target: 60, RewardPoints: 150},
}

type Challenge struct {
	ID           string
	Type         Type
	Title        string
	Description  string
	Target       int
	Progress     int
	RewardPoints int
	Completed    bool
	Rewarded     bool
	Date         string
}

// Seed hashes the date string with h = (h<<5) - h + c where only the shift
// operates on 32 bits: h is truncated to int32 before shifting and the
// subtraction and addition keep full precision.
func Seed(date string) int64 {
	var h int64
	for _, c := range date {
		h = int64(int32(h)<<5) - h + int64(c)
	}
	return h
}

func TemplateFor(date string) Template {
	seed := Seed(date)
	if seed < 0 {
		seed = -seed
	}
	return Templates[seed%int64(len(Templates))]
}

// Generate builds the challenge every learner gets on the calendar day of t.
func Generate(t time.Time) Challenge {
	return GenerateFor(clock.DateString(t))
}

func GenerateFor(date string) Challenge {
	tpl := TemplateFor(date)
	return Challenge{
		ID:           tpl.ID,
		Type:         tpl.Type,
		Title:        tpl.Title,
		Description:  tpl.Description,
		Target:       tpl.Target,
		RewardPoints: tpl.RewardPoints,
		Date:         date,
	}
}

// Stale reports whether c belongs to a different calendar day than t.
func (c Challenge) Stale(t time.Time) bool {
	return c.Date != clock.DateString(t)
}

// Update feeds one event into the challenge. Speed challenges complete when
// value is within the target; the others count up by value, capped at the
// target. It reports whether the challenge changed and whether this call
// completed it.
func (c *Challenge) Update(t Type, value int) (changed, completed bool) {
	if c.Completed || t != c.Type {
		return false, false
	}
	if c.Type == TypeSpeed {
		if value <= 0 || value > c.Target {
			return false, false
		}
		c.Progress = c.Target
		c.Completed = true
		return true, true
	}
	if value <= 0 {
		value = 1
	}
	c.Progress = min(c.Progress+value, c.Target)
	if c.Progress >= c.Target {
		c.Completed = true
	}
	return true, c.Completed
}

// Normalize clamps values read from storage.
func (c *Challenge) Normalize() {
	if c.Target < 1 {
		c.Target = 1
	}
	c.Progress = max(0, min(c.Progress, c.Target))
	if c.Rewarded {
		c.Completed = true
	}
}
