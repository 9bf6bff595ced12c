package dto

const (
	TypeQuiz    = "quiz"
	TypePerfect = "perfect"
	TypeModule  = "module"
	TypeSpeed   = "speed"
)

type UpdateInput struct {
	Type  string
	Value int
}

type ChallengeOutput struct {
	ID           string
	Type         string
	Title        string
	Description  string
	Target       int
	Progress     int
	RewardPoints int
	Completed    bool
	Rewarded     bool
	Date         string
	// JustCompleted and RewardCredited describe the call that produced this
	// output, not the stored state.
	JustCompleted  bool
	RewardCredited bool
	Regenerated    bool
	LoadState      string
}
