package domain

import "sort"

const LeaderboardLimit = 10

var mockLearners = []string{
	"Budi Santoso", "Ani Wijaya", "Citra Dewi", "Dimas Pratama", "Eka Putri",
	"Fajar Rahman", "Gita Sari", "Hadi Kusuma", "Indah Lestari", "Joko Widodo",
}

type LeaderboardEntry struct {
	Rank   int
	Name   string
	Points int
	Level  int
	IsYou  bool
}

// Leaderboard ranks the local learner against a fixed mock field. Ties keep
// the mock learner ahead.
func Leaderboard(p Profile) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(mockLearners)+1)
	for i, name := range mockLearners {
		points := 1000 - i*100
		entries = append(entries, LeaderboardEntry{Name: name, Points: points, Level: LevelFor(points)})
	}
	entries = append(entries, LeaderboardEntry{Name: p.Name, Points: p.TotalPoints, Level: LevelFor(p.TotalPoints), IsYou: true})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Points > entries[j].Points })
	if len(entries) > LeaderboardLimit {
		entries = entries[:LeaderboardLimit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
