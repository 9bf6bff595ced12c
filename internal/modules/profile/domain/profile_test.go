package domain_test

import (
	"fmt"
	"testing"
	"time"

	"urworld/internal/modules/profile/domain"
	"urworld/internal/platform/catalog"
)

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return c
}

func badge(p domain.Profile, id string) domain.BadgeState {
	for _, b := range p.Badges {
		if b.ID == id {
			return b
		}
	}
	return domain.BadgeState{}
}

func TestAggregateDerivesCountersFromQuizzes(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	p, unlocked := domain.Aggregate(domain.New(domain.DefaultName), c, []domain.QuizResult{
		{QuizID: "quiz-mercury", Score: 100},
		{QuizID: "quiz-venus", Score: 40},
		{QuizID: "quiz-plants", Score: 100},
		{QuizID: "quiz-unknown", Score: 100},
	}, now)

	if p.CompletedModules != 3 || p.TotalPoints != 300 || p.Level != 1 {
		t.Fatalf("unexpected counters %+v", p)
	}
	if p.Progress["physics"] != 50 || p.Progress["biology"] != 25 {
		t.Fatalf("unexpected progress %v", p.Progress)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "first-module" {
		t.Fatalf("expected only first-module, got %+v", unlocked)
	}
	if p.Achievements != 1 || len(p.Activities) != 1 || p.Activities[0].Title != "Unlocked badge: First Step" {
		t.Fatalf("unexpected badge bookkeeping %+v", p)
	}
}

func TestAggregateAddsBonusPointsToLevel(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)
	p := domain.New("x")
	p.BonusPoints = 450
	p, _ = domain.Aggregate(p, c, []domain.QuizResult{{QuizID: "quiz-mars", Score: 70}}, time.Unix(0, 0))
	if p.TotalPoints != 550 || p.Level != 2 {
		t.Fatalf("expected 550 points at level 2, got %d/%d", p.TotalPoints, p.Level)
	}
	if domain.PointsToNextLevel(p.TotalPoints) != 450 {
		t.Fatalf("unexpected points to next level %d", domain.PointsToNextLevel(p.TotalPoints))
	}
}

func TestBadgesAreNeverRevoked(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)
	all := []domain.QuizResult{}
	for _, m := range c.Modules() {
		all = append(all, domain.QuizResult{QuizID: m.QuizID, Score: 100})
	}
	p, unlocked := domain.Aggregate(domain.New("x"), c, all, time.Unix(10, 0))
	if len(unlocked) != 4 {
		t.Fatalf("expected first-module, bookworm, quiz-master and champion, got %+v", unlocked)
	}
	if !badge(p, "champion").Unlocked {
		t.Fatalf("champion must unlock with every module complete")
	}

	// Simulate a wiped ledger: counters drop to zero.
	p, unlocked = domain.Aggregate(p, c, nil, time.Unix(20, 0))
	if len(unlocked) != 0 {
		t.Fatalf("no badges expected on second pass, got %+v", unlocked)
	}
	for _, id := range []string{"first-module", "bookworm", "quiz-master", "champion"} {
		st := badge(p, id)
		if !st.Unlocked || !st.UnlockedAt.Equal(time.Unix(10, 0)) {
			t.Fatalf("badge %s must stay unlocked with its original time, got %+v", id, st)
		}
	}
	if p.CompletedModules != 0 || p.Achievements != 4 {
		t.Fatalf("derived counters must follow the ledger, got %+v", p)
	}
}

func TestSpeedAndStreakBadges(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)
	p := domain.New("x")
	p.RecordQuizTime(45)
	p.RecordQuizTime(0)
	p.RecordQuizTime(29)
	p.RecordQuizTime(50)
	if p.FastestQuizSeconds != 29 {
		t.Fatalf("expected fastest 29s, got %d", p.FastestQuizSeconds)
	}
	p.Streak = 7
	p, unlocked := domain.Aggregate(p, c, nil, time.Unix(0, 0))
	ids := fmt.Sprint(unlocked)
	if len(unlocked) != 2 || unlocked[0].ID != "speed-learner" || unlocked[1].ID != "streak-badge" {
		t.Fatalf("expected speed-learner then streak-badge, got %s", ids)
	}
}

func TestMergeBadgesDropsUnknownAndKeepsOrder(t *testing.T) {
	t.Parallel()
	c := mustCatalog(t)
	p := domain.New("x")
	p.Badges = []domain.BadgeState{{ID: "legacy", Unlocked: true}, {ID: "champion", Unlocked: true}}
	p, _ = domain.Aggregate(p, c, nil, time.Unix(0, 0))
	if len(p.Badges) != len(domain.Catalog) {
		t.Fatalf("expected %d badges, got %d", len(domain.Catalog), len(p.Badges))
	}
	if p.Badges[len(p.Badges)-1].ID != "champion" || !p.Badges[len(p.Badges)-1].Unlocked {
		t.Fatalf("stored champion state must survive, got %+v", p.Badges)
	}
	if p.Achievements != 1 {
		t.Fatalf("unknown badges must not count, got %d", p.Achievements)
	}
}

func TestUpdateStreak(t *testing.T) {
	t.Parallel()
	day := func(d int) time.Time { return time.Date(2026, 3, d, 20, 0, 0, 0, time.UTC) }

	p := domain.New("x")
	if !p.UpdateStreak(day(1)) || p.Streak != 1 {
		t.Fatalf("first visit must set streak to 1, got %d", p.Streak)
	}
	if p.UpdateStreak(day(1).Add(2*time.Hour)) || p.Streak != 1 {
		t.Fatalf("same day must not change streak, got %d", p.Streak)
	}
	p.UpdateStreak(day(2))
	p.UpdateStreak(day(3))
	if p.Streak != 3 {
		t.Fatalf("consecutive days must give streak 3, got %d", p.Streak)
	}

	gap := domain.New("x")
	gap.UpdateStreak(day(1))
	gap.UpdateStreak(day(6))
	if gap.Streak != 1 {
		t.Fatalf("gap must reset streak to 1, got %d", gap.Streak)
	}

	back := domain.New("x")
	back.UpdateStreak(day(5))
	if back.UpdateStreak(day(4)) || back.LastVisit != "Thu Mar 05 2026" {
		t.Fatalf("backwards clock must be ignored, got %+v", back)
	}
}

func TestActivityFeedIsBounded(t *testing.T) {
	t.Parallel()
	p := domain.New("x")
	for i := 0; i < 15; i++ {
		p.PushActivity(domain.Activity{Title: fmt.Sprintf("a%d", i)})
	}
	if len(p.Activities) != domain.ActivityCapacity {
		t.Fatalf("expected %d activities, got %d", domain.ActivityCapacity, len(p.Activities))
	}
	if p.Activities[0].Title != "a14" || p.Activities[9].Title != "a5" {
		t.Fatalf("feed must be most-recent-first, got %s..%s", p.Activities[0].Title, p.Activities[9].Title)
	}
}

func TestLeaderboard(t *testing.T) {
	t.Parallel()
	p := domain.New("Me")
	p.TotalPoints = 750
	board := domain.Leaderboard(p)
	if len(board) != domain.LeaderboardLimit {
		t.Fatalf("expected %d entries, got %d", domain.LeaderboardLimit, len(board))
	}
	if board[0].Name != "Budi Santoso" || board[0].Points != 1000 || board[0].Level != 3 || board[0].Rank != 1 {
		t.Fatalf("unexpected leader %+v", board[0])
	}
	var me *domain.LeaderboardEntry
	for i := range board {
		if board[i].IsYou {
			me = &board[i]
		}
	}
	if me == nil || me.Rank != 4 {
		t.Fatalf("expected local learner at rank 4, got %+v", me)
	}
	if board[len(board)-1].Name != "Indah Lestari" {
		t.Fatalf("lowest mock learner must drop off, got %+v", board[len(board)-1])
	}

	low := domain.Leaderboard(domain.New("Low"))
	for _, e := range low {
		if e.IsYou {
			t.Fatalf("a zero-point learner must not make the top 10")
		}
	}
}
