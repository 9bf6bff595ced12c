package dto

import "time"

type ModuleStatusOutput struct {
	ModuleID       string
	QuizID         string
	Subject        string
	Title          string
	QuizTitle      string
	Sequence       int
	Known          bool
	Unlocked       bool
	Read           bool
	QuizUnlocked   bool
	QuizCompleted  bool
	FullyCompleted bool
	BestScore      int
	CompletedAt    time.Time
}

type MarkReadOutput struct {
	ModuleID string
	Title    string
	Known    bool
	Locked   bool
	Changed  bool
}

type RecordQuizInput struct {
	QuizID string
	Score  int
}

type RecordQuizOutput struct {
	QuizID           string
	ModuleID         string
	Subject          string
	Score            int
	BestScore        int
	Improved         bool
	FirstCompletion  bool
	Passed           bool
	CompletedAt      time.Time
	UnlockedModuleID string
}

type QuizResultOutput struct {
	QuizID      string
	ModuleID    string
	Subject     string
	Title       string
	Score       int
	CompletedAt time.Time
}

// LedgerOutput is a read-only copy of the ledger for other modules.
type LedgerOutput struct {
	CompletedModules []string
	Quizzes          []QuizResultOutput
	CurrentModule    string
	LastAccessed     time.Time
	LoadState        string
}
