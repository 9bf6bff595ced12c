package domain

import "urworld/internal/platform/catalog"

// Status is the per-module view of the ledger.
type Status struct {
	Module         catalog.ModuleDescriptor
	Known          bool
	Unlocked       bool
	Read           bool
	QuizCompleted  bool
	FullyCompleted bool
	Best           QuizRecord
}

// IsModuleUnlocked applies the sequence rule: the first module of a subject
// is always open, any later one opens once the previous module's quiz has a
// result. Unknown modules are locked.
func IsModuleUnlocked(c *catalog.Catalog, l Ledger, moduleID string) bool {
	m, ok := c.Module(moduleID)
	if !ok {
		return false
	}
	if m.SequenceIndex == 0 {
		return true
	}
	prev, ok := c.Previous(moduleID)
	if !ok {
		return false
	}
	_, done := l.Quiz(prev.QuizID)
	return done
}

// IsQuizUnlocked is true once the quiz's own module has been read.
func IsQuizUnlocked(c *catalog.Catalog, l Ledger, quizID string) bool {
	m, ok := c.ModuleForQuiz(quizID)
	if !ok {
		return false
	}
	return l.HasRead(m.ModuleID)
}

func StatusOf(c *catalog.Catalog, l Ledger, moduleID string) Status {
	m, ok := c.Module(moduleID)
	if !ok {
		return Status{Module: catalog.ModuleDescriptor{ModuleID: moduleID}}
	}
	best, quizDone := l.Quiz(m.QuizID)
	read := l.HasRead(moduleID)
	return Status{
		Module:         m,
		Known:          true,
		Unlocked:       IsModuleUnlocked(c, l, moduleID),
		Read:           read,
		QuizCompleted:  quizDone,
		FullyCompleted: read && quizDone,
		Best:           best,
	}
}
