package dto

import (
	"time"

	challengedto "urworld/internal/modules/challenge/dto"
	profiledto "urworld/internal/modules/profile/dto"
)

// QuestionView is what a learner sees for the current question. Number is
// one-based; Chosen and CorrectAnswer are zero-based option indexes and only
// meaningful once Revealed is set.
type QuestionView struct {
	AttemptID      string
	QuizID         string
	QuizTitle      string
	ModuleID       string
	Number         int
	Total          int
	Prompt         string
	Options        []string
	State          string
	Revealed       bool
	Chosen         int
	Correct        bool
	CorrectAnswer  int
	Explanation    string
	CorrectCount   int
	ElapsedSeconds int
	ShowTimer      bool
	Resumed        bool
	// Ignored is set when an answer arrived for an already answered question.
	Ignored bool
}

type AnswerInput struct {
	QuizID string
	Choice int
}

type ResultOutput struct {
	AttemptID          string
	QuizID             string
	QuizTitle          string
	ModuleID           string
	Score              int
	Stars              int
	Rating             string
	Message            string
	Passed             bool
	CorrectCount       int
	Total              int
	Seconds            int
	ShowTimer          bool
	BestScore          int
	UnlockedModuleID   string
	NotePath           string
	Profile            profiledto.ProfileOutput
	Challenge          challengedto.ChallengeOutput
	ChallengeCompleted bool
}

type StepOutput struct {
	Completed bool
	Question  QuestionView
	Result    ResultOutput
}

type HistoryEntryOutput struct {
	Score        int
	Seconds      int
	Date         time.Time
	PerfectScore bool
	Correct      int
	Total        int
}

type HistoryOutput struct {
	QuizID    string
	QuizTitle string
	Entries   []HistoryEntryOutput
	Best      int
	LoadState string
}
