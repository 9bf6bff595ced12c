package domain

import (
	"fmt"
	"time"

	apperrors "urworld/internal/platform/errors"
)

const (
	SchemaVersion = 1
	MinScore      = 0
	MaxScore      = 100
	// PassingScore is the lowest percentage counted as a pass.
	PassingScore = 60
)

type QuizRecord struct {
	QuizID      string
	Score       int
	CompletedAt time.Time
}

// Ledger is the canonical record of read modules and completed quizzes.
type Ledger struct {
	CompletedModules []string
	CompletedQuizzes []QuizRecord
	CurrentModule    string
	LastAccessed     time.Time
}

func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: score %d outside %d..%d", apperrors.ErrInvalidInput, score, MinScore, MaxScore)
	}
	return nil
}

func Passed(score int) bool {
	return score >= PassingScore
}

func (l Ledger) HasRead(moduleID string) bool {
	for _, id := range l.CompletedModules {
		if id == moduleID {
			return true
		}
	}
	return false
}

func (l Ledger) Quiz(quizID string) (QuizRecord, bool) {
	for _, r := range l.CompletedQuizzes {
		if r.QuizID == quizID {
			return r, true
		}
	}
	return QuizRecord{}, false
}

// MarkModuleRead adds moduleID to the read set. It reports false and leaves
// the ledger untouched when the module was already read.
func (l *Ledger) MarkModuleRead(moduleID string, at time.Time) bool {
	if l.HasRead(moduleID) {
		return false
	}
	l.CompletedModules = append(l.CompletedModules, moduleID)
	l.CurrentModule = moduleID
	l.LastAccessed = at
	return true
}

// RecordQuiz keeps the best score per quiz while always moving CompletedAt
// to the latest attempt. improved is true for first completions and for
// strictly higher scores.
func (l *Ledger) RecordQuiz(quizID string, score int, at time.Time) (bool, error) {
	if err := ValidateScore(score); err != nil {
		return false, err
	}
	for i := range l.CompletedQuizzes {
		rec := &l.CompletedQuizzes[i]
		if rec.QuizID != quizID {
			continue
		}
		improved := score > rec.Score
		if improved {
			rec.Score = score
		}
		rec.CompletedAt = at
		return improved, nil
	}
	l.CompletedQuizzes = append(l.CompletedQuizzes, QuizRecord{QuizID: quizID, Score: score, CompletedAt: at})
	return true, nil
}

// Normalize folds duplicate entries left by hand edits or older writers and
// clamps scores into range.
func (l Ledger) Normalize() Ledger {
	out := Ledger{CurrentModule: l.CurrentModule, LastAccessed: l.LastAccessed}
	seen := map[string]bool{}
	for _, id := range l.CompletedModules {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out.CompletedModules = append(out.CompletedModules, id)
	}
	index := map[string]int{}
	for _, r := range l.CompletedQuizzes {
		if r.QuizID == "" {
			continue
		}
		r.Score = clamp(r.Score)
		if i, ok := index[r.QuizID]; ok {
			prev := &out.CompletedQuizzes[i]
			if r.Score > prev.Score {
				prev.Score = r.Score
			}
			if r.CompletedAt.After(prev.CompletedAt) {
				prev.CompletedAt = r.CompletedAt
			}
			continue
		}
		index[r.QuizID] = len(out.CompletedQuizzes)
		out.CompletedQuizzes = append(out.CompletedQuizzes, r)
	}
	return out
}

func clamp(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	}
	return score
}
