package domain

import "time"

const HistoryLimit = 5

type HistoryEntry struct {
	Score        int
	Seconds      int
	Date         time.Time
	PerfectScore bool
	Answers      []Answer
}

// History holds the most recent attempts per base quiz id, oldest first.
type History map[string][]HistoryEntry

func EntryFor(a Attempt, now time.Time) HistoryEntry {
	score := a.Score()
	return HistoryEntry{
		Score:        score,
		Seconds:      a.ElapsedSeconds(now),
		Date:         now,
		PerfectScore: score == 100,
		Answers:      append([]Answer(nil), a.Answers...),
	}
}

func (h History) Append(quizID string, e HistoryEntry) {
	entries := append(h[quizID], e)
	if len(entries) > HistoryLimit {
		entries = entries[len(entries)-HistoryLimit:]
	}
	h[quizID] = entries
}

func (h History) Best(quizID string) (HistoryEntry, bool) {
	var best HistoryEntry
	found := false
	for _, e := range h[quizID] {
		if !found || e.Score > best.Score {
			best, found = e, true
		}
	}
	return best, found
}
