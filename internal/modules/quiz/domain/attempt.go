package domain

import (
	"fmt"
	"math"
	"regexp"
	"time"

	apperrors "urworld/internal/platform/errors"
)

const PassingScore = 60

type State int

const (
	AwaitingAnswer State = iota
	AnswerRevealed
	Completed
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting_answer"
	case AnswerRevealed:
		return "answer_revealed"
	case Completed:
		return "completed"
	}
	return "unknown"
}

func ParseState(s string) (State, error) {
	for _, st := range []State{AwaitingAnswer, AnswerRevealed, Completed} {
		if st.String() == s {
			return st, nil
		}
	}
	return AwaitingAnswer, fmt.Errorf("%w: unknown attempt state %q", apperrors.ErrInvalidInput, s)
}

type Answer struct {
	Question int
	Choice   int
	Correct  bool
}

// Attempt is one pass through a quiz. QuestionIndex is zero-based.
type Attempt struct {
	ID             string
	QuizID         string
	ModuleID       string
	QuestionIndex  int
	TotalQuestions int
	CorrectCount   int
	StartedAt      time.Time
	FinishedAt     time.Time
	State          State
	Answers        []Answer
}

func NewAttempt(id, quizID, moduleID string, total int, now time.Time) (Attempt, error) {
	if total < 1 {
		return Attempt{}, fmt.Errorf("%w: quiz %s has no questions", apperrors.ErrInvalidInput, quizID)
	}
	return Attempt{ID: id, QuizID: quizID, ModuleID: moduleID, TotalQuestions: total, StartedAt: now, State: AwaitingAnswer}, nil
}

// Submit records the answer for the current question. A second answer to the
// same question is rejected with ErrAlreadyAnswered and changes nothing.
func (a *Attempt) Submit(choice int, correct bool) error {
	switch a.State {
	case AnswerRevealed:
		return apperrors.ErrAlreadyAnswered
	case Completed:
		return apperrors.ErrAttemptCompleted
	}
	a.Answers = append(a.Answers, Answer{Question: a.QuestionIndex, Choice: choice, Correct: correct})
	if correct {
		a.CorrectCount++
	}
	a.State = AnswerRevealed
	return nil
}

// Advance moves past a revealed answer. It reports whether the attempt is
// now complete.
func (a *Attempt) Advance(now time.Time) (bool, error) {
	switch a.State {
	case AwaitingAnswer:
		return false, apperrors.ErrAnswerPending
	case Completed:
		return true, apperrors.ErrAttemptCompleted
	}
	if a.QuestionIndex+1 >= a.TotalQuestions {
		a.State = Completed
		a.FinishedAt = now
		return true, nil
	}
	a.QuestionIndex++
	a.State = AwaitingAnswer
	return false, nil
}

// LastAnswer is the answer to the current question once revealed.
func (a Attempt) LastAnswer() (Answer, bool) {
	if a.State == AwaitingAnswer || len(a.Answers) == 0 {
		return Answer{}, false
	}
	return a.Answers[len(a.Answers)-1], true
}

func (a Attempt) ElapsedSeconds(now time.Time) int {
	end := a.FinishedAt
	if end.IsZero() {
		end = now
	}
	if end.Before(a.StartedAt) {
		return 0
	}
	return int(end.Sub(a.StartedAt) / time.Second)
}

func (a Attempt) Score() int {
	return Score(a.CorrectCount, a.TotalQuestions)
}

func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

func Passed(score int) bool { return score >= PassingScore }

func Stars(score int) int {
	switch {
	case score >= 90:
		return 3
	case score >= 60:
		return 2
	case score >= 30:
		return 1
	}
	return 0
}

// Rating is the short label shown next to the stars.
func Rating(score int) string {
	switch Stars(score) {
	case 3:
		return "excellent"
	case 2:
		return "pass"
	case 1:
		return "needs improvement"
	}
	return "retry"
}

func Message(score int) string {
	switch {
	case score == 100:
		return "Perfect! You mastered this material!"
	case score >= 80:
		return "Great job! Your understanding is solid."
	case score >= 60:
		return "Well done, you passed. Keep it up!"
	case score >= 30:
		return "Not bad, but review the material again."
	}
	return "Keep going! Read the module again and retry."
}

var pageSuffix = regexp.MustCompile(`-\d+$`)

// BaseID strips a trailing page number, "quiz-mars-3" -> "quiz-mars".
func BaseID(quizID string) string {
	return pageSuffix.ReplaceAllString(quizID, "")
}
