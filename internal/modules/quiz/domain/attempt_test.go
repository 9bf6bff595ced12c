package domain_test

import (
	"errors"
	"testing"
	"time"

	"urworld/internal/modules/quiz/domain"
	apperrors "urworld/internal/platform/errors"
)

func TestScoreStarsAndMessages(t *testing.T) {
	t.Parallel()
	cases := []struct {
		score   int
		stars   int
		passed  bool
		message string
	}{
		{score: 100, stars: 3, passed: true, message: "Perfect! You mastered this material!"},
		{score: 95, stars: 3, passed: true, message: "Great job! Your understanding is solid."},
		{score: 65, stars: 2, passed: true, message: "Well done, you passed. Keep it up!"},
		{score: 60, stars: 2, passed: true, message: "Well done, you passed. Keep it up!"},
		{score: 59, stars: 1, passed: false, message: "Not bad, but review the material again."},
		{score: 35, stars: 1, passed: false, message: "Not bad, but review the material again."},
		{score: 10, stars: 0, passed: false, message: "Keep going! Read the module again and retry."},
	}
	for _, tc := range cases {
		if got := domain.Stars(tc.score); got != tc.stars {
			t.Fatalf("stars(%d) = %d, want %d", tc.score, got, tc.stars)
		}
		if got := domain.Passed(tc.score); got != tc.passed {
			t.Fatalf("passed(%d) = %v, want %v", tc.score, got, tc.passed)
		}
		if got := domain.Message(tc.score); got != tc.message {
			t.Fatalf("message(%d) = %q", tc.score, got)
		}
	}
	if domain.Score(2, 3) != 67 || domain.Score(1, 3) != 33 || domain.Score(0, 0) != 0 {
		t.Fatalf("unexpected rounding")
	}
}

func TestAttemptStateMachine(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	a, err := domain.NewAttempt("a1", "quiz-mars", "physics-4", 2, start)
	if err != nil {
		t.Fatalf("new attempt: %v", err)
	}
	if _, err := a.Advance(start); !errors.Is(err, apperrors.ErrAnswerPending) {
		t.Fatalf("expected answer pending, got %v", err)
	}
	if err := a.Submit(1, true); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := a.Submit(0, false); !errors.Is(err, apperrors.ErrAlreadyAnswered) {
		t.Fatalf("expected already answered, got %v", err)
	}
	if a.CorrectCount != 1 || len(a.Answers) != 1 {
		t.Fatalf("second answer must not count: %+v", a)
	}
	done, err := a.Advance(start.Add(10 * time.Second))
	if err != nil || done || a.QuestionIndex != 1 || a.State != domain.AwaitingAnswer {
		t.Fatalf("advance to second question: done=%v err=%v %+v", done, err, a)
	}
	_ = a.Submit(2, false)
	done, err = a.Advance(start.Add(25 * time.Second))
	if err != nil || !done || a.State != domain.Completed {
		t.Fatalf("expected completion, done=%v err=%v", done, err)
	}
	if a.Score() != 50 || a.ElapsedSeconds(start.Add(time.Hour)) != 25 {
		t.Fatalf("unexpected score %d or elapsed %d", a.Score(), a.ElapsedSeconds(start.Add(time.Hour)))
	}
	if err := a.Submit(0, true); !errors.Is(err, apperrors.ErrAttemptCompleted) {
		t.Fatalf("completed attempt must be terminal, got %v", err)
	}
}

func TestBaseIDAndState(t *testing.T) {
	t.Parallel()
	if domain.BaseID("quiz-mars-3") != "quiz-mars" || domain.BaseID("quiz-mars") != "quiz-mars" {
		t.Fatalf("unexpected base id")
	}
	st, err := domain.ParseState("answer_revealed")
	if err != nil || st != domain.AnswerRevealed {
		t.Fatalf("parse state: %v %v", st, err)
	}
	if _, err := domain.ParseState("bogus"); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestHistoryKeepsLastFive(t *testing.T) {
	t.Parallel()
	h := domain.History{}
	for i := 0; i < 7; i++ {
		h.Append("quiz-venus", domain.HistoryEntry{Score: i * 10})
	}
	entries := h["quiz-venus"]
	if len(entries) != domain.HistoryLimit || entries[0].Score != 20 || entries[4].Score != 60 {
		t.Fatalf("unexpected history %+v", entries)
	}
	best, ok := h.Best("quiz-venus")
	if !ok || best.Score != 60 {
		t.Fatalf("unexpected best %+v", best)
	}
	if _, ok := h.Best("quiz-earth"); ok {
		t.Fatalf("unknown quiz has no best entry")
	}
}
