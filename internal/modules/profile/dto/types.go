package dto

import "time"

type SubjectProgress struct {
	Subject   string
	Title     string
	Percent   int
	Completed int
	Total     int
}

type ActivityOutput struct {
	Title string
	Icon  string
	At    time.Time
}

type BadgeOutput struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Unlocked    bool
	UnlockedAt  time.Time
}

type ProfileOutput struct {
	Name               string
	JoinDate           time.Time
	Level              int
	TotalPoints        int
	BonusPoints        int
	XP                 int
	PointsToNextLevel  int
	CompletedModules   int
	Achievements       int
	Streak             int
	LastVisit          string
	FastestQuizSeconds int
	Progress           []SubjectProgress
	Activities         []ActivityOutput
	Badges             []BadgeOutput
	NewBadges          []BadgeOutput
	LoadState          string
}

type QuizCompletionInput struct {
	QuizID  string
	Title   string
	Score   int
	Seconds int
	Passed  bool
}

type CreditInput struct {
	Amount int
	Reason string
}

type LeaderboardEntry struct {
	Rank   int
	Name   string
	Points int
	Level  int
	IsYou  bool
}
