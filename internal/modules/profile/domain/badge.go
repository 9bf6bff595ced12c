package domain

// Counters are the inputs to badge predicates. Each predicate is monotonic
// in them.
type Counters struct {
	CompletedModules   int
	TotalModules       int
	PerfectQuizzes     int
	Streak             int
	FastestQuizSeconds int
}

type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      func(Counters) bool
}

const SpeedLearnerSeconds = 30

// Catalog is evaluated in this order on every aggregation pass.
var Catalog = []Badge{
	{
		ID: "first-module", Name: "First Step", Icon: "flag",
		Description: "Complete your first module",
		Earned:      func(c Counters) bool { return c.CompletedModules >= 1 },
	},
	{
		ID: "bookworm", Name: "Bookworm", Icon: "book",
		Description: "Complete 5 modules",
		Earned:      func(c Counters) bool { return c.CompletedModules >= 5 },
	},
	{
		ID: "quiz-master", Name: "Quiz Master", Icon: "trophy",
		Description: "Score 100% on 3 quizzes",
		Earned:      func(c Counters) bool { return c.PerfectQuizzes >= 3 },
	},
	{
		ID: "speed-learner", Name: "Speed Learner", Icon: "bolt",
		Description: "Finish a quiz in under 30 seconds",
		Earned: func(c Counters) bool {
			return c.FastestQuizSeconds > 0 && c.FastestQuizSeconds < SpeedLearnerSeconds
		},
	},
	{
		ID: "streak-badge", Name: "On Fire", Icon: "fire",
		Description: "Study 7 days in a row",
		Earned:      func(c Counters) bool { return c.Streak >= 7 },
	},
	{
		ID: "champion", Name: "Champion", Icon: "crown",
		Description: "Complete every module in every subject",
		Earned: func(c Counters) bool {
			return c.TotalModules > 0 && c.CompletedModules >= c.TotalModules
		},
	},
}

func BadgeByID(id string) (Badge, bool) {
	for _, b := range Catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
