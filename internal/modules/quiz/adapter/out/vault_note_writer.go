package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	quizout "urworld/internal/modules/quiz/port/out"
	"urworld/internal/platform/markdown"
	"urworld/internal/platform/slug"
)

// VaultNoteWriter files each completed attempt as a dated markdown note.
type VaultNoteWriter struct {
	dir string
}

func NewVaultNoteWriter(dir string) quizout.NoteWriter {
	return &VaultNoteWriter{dir: dir}
}

func (w *VaultNoteWriter) WriteAttempt(_ context.Context, note quizout.AttemptNote) (string, error) {
	a := note.Attempt
	finished := a.FinishedAt
	dayDir := filepath.Join(w.dir, finished.Format("2006"), finished.Format("01"), finished.Format("02"))
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return "", fmt.Errorf("create attempt dir: %w", err)
	}
	name := finished.Format("150405") + "-" + slug.Make(note.Module.QuizTitle)
	path := filepath.Join(dayDir, name+".md")
	if existing, err := os.ReadFile(path); err == nil && !sameAttempt(existing, a.ID) {
		short := a.ID
		if len(short) > 8 {
			short = short[:8]
		}
		path = filepath.Join(dayDir, name+"-"+short+".md")
	}

	content, err := markdown.RenderNote([]markdown.Field{
		{Key: "id", Value: a.ID},
		{Key: "quiz", Value: a.QuizID},
		{Key: "module", Value: note.Module.ModuleID},
		{Key: "subject", Value: note.Module.Subject},
		{Key: "score", Value: note.Score},
		{Key: "stars", Value: note.Stars},
		{Key: "passed", Value: note.Passed},
		{Key: "correct", Value: a.CorrectCount},
		{Key: "total", Value: a.TotalQuestions},
		{Key: "seconds", Value: note.Seconds},
		{Key: "started", Value: a.StartedAt.Format(time.RFC3339)},
		{Key: "finished", Value: finished.Format(time.RFC3339)},
	}, renderBody(note))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write attempt note: %w", err)
	}
	return path, nil
}

// sameAttempt reports whether an existing note was written for attemptID, in
// which case it is overwritten rather than duplicated.
func sameAttempt(content []byte, attemptID string) bool {
	meta, _, err := markdown.SplitNote(string(content))
	if err != nil {
		return false
	}
	id, _ := meta["id"].(string)
	return id == attemptID
}

func renderBody(note quizout.AttemptNote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", note.Module.QuizTitle)
	for _, ans := range note.Attempt.Answers {
		if ans.Question >= len(note.Questions) {
			continue
		}
		q := note.Questions[ans.Question]
		mark := "x"
		if !ans.Correct {
			mark = " "
		}
		fmt.Fprintf(&b, "- [%s] %d. %s\n", mark, ans.Question+1, q.Prompt)
		if ans.Choice >= 0 && ans.Choice < len(q.Options) {
			fmt.Fprintf(&b, "  - answered: %s\n", q.Options[ans.Choice])
		}
		if !ans.Correct && q.Answer < len(q.Options) {
			fmt.Fprintf(&b, "  - correct: %s\n", q.Options[q.Answer])
		}
	}
	return b.String()
}
