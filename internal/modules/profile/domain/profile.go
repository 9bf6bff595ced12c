package domain

import (
	"math"
	"time"

	"urworld/internal/platform/catalog"
	"urworld/internal/platform/clock"
)

const (
	SchemaVersion    = 1
	DefaultName      = "UR WORLD Learner"
	PointsPerModule  = 100
	PointsPerLevel   = 500
	ActivityCapacity = 10
)

const (
	IconQuiz      = "quiz"
	IconBadge     = "badge"
	IconChallenge = "challenge"
	IconProfile   = "profile"
)

type Activity struct {
	Title string
	Icon  string
	At    time.Time
}

type BadgeState struct {
	ID         string
	Unlocked   bool
	UnlockedAt time.Time
}

// Profile mixes authoritative fields (Name, JoinDate, streak bookkeeping,
// bonus points, fastest quiz) with fields that Aggregate recomputes from the
// ledger on every pass.
type Profile struct {
	Name               string
	JoinDate           time.Time
	Level              int
	TotalPoints        int
	BonusPoints        int
	XP                 int
	CompletedModules   int
	Achievements       int
	Streak             int
	LastVisit          string
	Progress           map[string]int
	SubjectCounts      map[string]int
	Activities         []Activity
	Badges             []BadgeState
	FastestQuizSeconds int
}

// QuizResult is the slice of ledger state the aggregator needs.
type QuizResult struct {
	QuizID string
	Score  int
}

func New(name string) Profile {
	p := Profile{Name: name, Level: 1, Progress: map[string]int{}}
	p.Badges = mergeBadges(nil)
	return p
}

func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// PointsToNextLevel is how many points separate totalPoints from the next
// level threshold.
func PointsToNextLevel(totalPoints int) int {
	return LevelFor(totalPoints)*PointsPerLevel - totalPoints
}

// PushActivity prepends a to the feed, keeping at most ActivityCapacity
// entries.
func (p *Profile) PushActivity(a Activity) {
	feed := make([]Activity, 0, ActivityCapacity)
	feed = append(feed, a)
	feed = append(feed, p.Activities...)
	if len(feed) > ActivityCapacity {
		feed = feed[:ActivityCapacity]
	}
	p.Activities = feed
}

// UpdateStreak applies the once-per-calendar-day rule for a visit at now.
// It reports whether anything changed. A clock that moved backwards leaves
// the streak alone.
func (p *Profile) UpdateStreak(now time.Time) bool {
	today := clock.DateString(now)
	if p.LastVisit == "" {
		p.Streak = 1
		p.LastVisit = today
		return true
	}
	if p.LastVisit == today {
		return false
	}
	last, err := clock.ParseDateString(p.LastVisit, now.Location())
	if err != nil {
		p.Streak = 1
		p.LastVisit = today
		return true
	}
	switch diff := clock.DaysBetween(last, now); {
	case diff == 1:
		p.Streak++
	case diff > 1:
		p.Streak = 1
	default:
		return false
	}
	p.LastVisit = today
	return true
}

// RecordQuizTime keeps the fastest completion seen so far.
func (p *Profile) RecordQuizTime(seconds int) {
	if seconds <= 0 {
		return
	}
	if p.FastestQuizSeconds == 0 || seconds < p.FastestQuizSeconds {
		p.FastestQuizSeconds = seconds
	}
}

// Aggregate recomputes every derived field from the ledger's quiz results
// and unlocks newly satisfied badges. Unlocked badges are never revoked.
// The returned slice lists badges unlocked by this pass.
func Aggregate(p Profile, cat *catalog.Catalog, quizzes []QuizResult, now time.Time) (Profile, []Badge) {
	perSubject := map[string]int{}
	perfect := 0
	seen := map[string]bool{}
	for _, q := range quizzes {
		m, ok := cat.ModuleForQuiz(q.QuizID)
		if !ok || seen[q.QuizID] {
			continue
		}
		seen[q.QuizID] = true
		perSubject[m.Subject]++
		if q.Score == 100 {
			perfect++
		}
	}

	p.Progress = map[string]int{}
	p.SubjectCounts = perSubject
	completed, total := 0, 0
	for _, s := range cat.Subjects() {
		n := perSubject[s.ID]
		completed += n
		total += len(s.Modules)
		if len(s.Modules) > 0 {
			p.Progress[s.ID] = int(math.Round(100 * float64(n) / float64(len(s.Modules))))
		}
	}
	p.CompletedModules = completed
	p.TotalPoints = completed*PointsPerModule + p.BonusPoints
	p.Level = LevelFor(p.TotalPoints)

	counters := Counters{
		CompletedModules:   completed,
		TotalModules:       total,
		PerfectQuizzes:     perfect,
		Streak:             p.Streak,
		FastestQuizSeconds: p.FastestQuizSeconds,
	}
	p.Badges = mergeBadges(p.Badges)
	var unlocked []Badge
	for i, b := range Catalog {
		state := &p.Badges[i]
		if state.Unlocked || !b.Earned(counters) {
			continue
		}
		state.Unlocked = true
		state.UnlockedAt = now
		unlocked = append(unlocked, b)
		p.PushActivity(Activity{Title: "Unlocked badge: " + b.Name, Icon: IconBadge, At: now})
	}
	p.Achievements = 0
	for _, st := range p.Badges {
		if st.Unlocked {
			p.Achievements++
		}
	}
	return p, unlocked
}

// mergeBadges lays stored states over the badge catalog, in catalog order.
// Unknown stored ids are dropped.
func mergeBadges(stored []BadgeState) []BadgeState {
	byID := make(map[string]BadgeState, len(stored))
	for _, st := range stored {
		prev, ok := byID[st.ID]
		if !ok || (!prev.Unlocked && st.Unlocked) {
			byID[st.ID] = st
		}
	}
	out := make([]BadgeState, len(Catalog))
	for i, b := range Catalog {
		st := byID[b.ID]
		st.ID = b.ID
		out[i] = st
	}
	return out
}
