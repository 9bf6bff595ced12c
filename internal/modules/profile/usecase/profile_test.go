package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	profileoutadapter "urworld/internal/modules/profile/adapter/out"
	"urworld/internal/modules/profile/dto"
	profilein "urworld/internal/modules/profile/port/in"
	"urworld/internal/modules/profile/service"
	"urworld/internal/modules/profile/usecase"
	progressdto "urworld/internal/modules/progress/dto"
	"urworld/internal/platform/catalog"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/events"
	"urworld/internal/platform/kvstore"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type fakeProgress struct {
	quizzes []progressdto.QuizResultOutput
}

func (f *fakeProgress) MarkModuleRead(context.Context, string) (progressdto.MarkReadOutput, error) {
	return progressdto.MarkReadOutput{}, nil
}
func (f *fakeProgress) RecordQuizResult(context.Context, progressdto.RecordQuizInput) (progressdto.RecordQuizOutput, error) {
	return progressdto.RecordQuizOutput{}, nil
}
func (f *fakeProgress) IsModuleUnlocked(context.Context, string) bool { return false }
func (f *fakeProgress) IsQuizUnlocked(context.Context, string) bool   { return false }
func (f *fakeProgress) StatusOf(context.Context, string) progressdto.ModuleStatusOutput {
	return progressdto.ModuleStatusOutput{}
}
func (f *fakeProgress) ListModules(context.Context, string) []progressdto.ModuleStatusOutput {
	return nil
}
func (f *fakeProgress) Snapshot(context.Context) progressdto.LedgerOutput {
	return progressdto.LedgerOutput{Quizzes: f.quizzes}
}
func (f *fakeProgress) Reindex(context.Context) (int, error) { return 0, nil }
func (f *fakeProgress) Reset(context.Context) error          { return nil }

type fixture struct {
	uc       profilein.Usecase
	clock    *fakeClock
	progress *fakeProgress
	events   *events.Memory
	vault    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	vault := t.TempDir()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	store, err := profileoutadapter.NewKVProfileStore(kvstore.NewFileStore(filepath.Join(vault, ".urworld", "storage")))
	if err != nil {
		t.Fatalf("profile store: %v", err)
	}
	clk := &fakeClock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	progress := &fakeProgress{}
	mem := events.NewMemory()
	uc := usecase.NewInteractor(
		service.NewProfileService(clk, cat, store, nil),
		progress,
		profileoutadapter.NewVaultReportWriter(filepath.Join(vault, "progress.md")),
		mem,
	)
	return fixture{uc: uc, clock: clk, progress: progress, events: mem, vault: vault}
}

func TestRefreshOnFreshProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	out, err := f.uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if out.Name != "UR WORLD Learner" || out.Level != 1 || out.TotalPoints != 0 || out.Streak != 1 {
		t.Fatalf("unexpected fresh profile %+v", out)
	}
	if out.LoadState != kvstore.StateMissing.String() {
		t.Fatalf("expected missing load state on first run, got %s", out.LoadState)
	}
	if !out.JoinDate.Equal(f.clock.now) {
		t.Fatalf("join date must be set on first refresh, got %v", out.JoinDate)
	}
	if len(out.Badges) != 6 || out.Achievements != 0 {
		t.Fatalf("expected six locked badges, got %+v", out.Badges)
	}
}

func TestQuizCompletionAddsActivityAndBadge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.progress.quizzes = []progressdto.QuizResultOutput{{QuizID: "quiz-mercury", Score: 100}}

	out, err := f.uc.RecordQuizCompletion(ctx, dto.QuizCompletionInput{QuizID: "quiz-mercury", Title: "mercury quiz", Score: 100, Seconds: 42, Passed: true})
	if err != nil {
		t.Fatalf("record completion: %v", err)
	}
	if out.CompletedModules != 1 || out.TotalPoints != 100 || out.Level != 1 {
		t.Fatalf("unexpected counters %+v", out)
	}
	if len(out.NewBadges) != 1 || out.NewBadges[0].ID != "first-module" {
		t.Fatalf("expected first-module badge, got %+v", out.NewBadges)
	}
	if len(out.Activities) != 2 {
		t.Fatalf("expected badge and quiz activities, got %+v", out.Activities)
	}
	if out.Activities[0].Title != "Unlocked badge: First Step" || out.Activities[1].Title != "Completed quiz: Mercury Quiz (score 100%)" {
		t.Fatalf("unexpected activity order %+v", out.Activities)
	}
	if out.FastestQuizSeconds != 42 {
		t.Fatalf("expected fastest time 42, got %d", out.FastestQuizSeconds)
	}
	got := f.events.Events()
	if len(got) != 1 || got[0].Type != events.BadgeUnlocked {
		t.Fatalf("expected one badge event, got %+v", got)
	}

	again, err := f.uc.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(again.NewBadges) != 0 || len(again.Activities) != 2 {
		t.Fatalf("refresh must not re-announce badges, got %+v", again)
	}
}

func TestFailedQuizAddsNoActivity(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.progress.quizzes = []progressdto.QuizResultOutput{{QuizID: "quiz-venus", Score: 33}}
	out, err := f.uc.RecordQuizCompletion(context.Background(), dto.QuizCompletionInput{QuizID: "quiz-venus", Score: 33, Seconds: 80})
	if err != nil {
		t.Fatalf("record completion: %v", err)
	}
	for _, a := range out.Activities {
		if strings.HasPrefix(a.Title, "Completed quiz") {
			t.Fatalf("failed attempt must not add a quiz activity: %+v", out.Activities)
		}
	}
}

func TestCreditPointsRaisesLevel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.progress.quizzes = []progressdto.QuizResultOutput{
		{QuizID: "quiz-mercury", Score: 80}, {QuizID: "quiz-venus", Score: 80},
		{QuizID: "quiz-earth", Score: 80}, {QuizID: "quiz-mars", Score: 80},
	}
	out, err := f.uc.CreditPoints(ctx, dto.CreditInput{Amount: 150, Reason: "Speed run"})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if out.TotalPoints != 550 || out.Level != 2 || out.XP != 150 {
		t.Fatalf("expected 550 points, level 2, xp 150, got %+v", out)
	}
	if _, err := f.uc.CreditPoints(ctx, dto.CreditInput{Amount: 0}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero credit, got %v", err)
	}
}

func TestStreakAcrossDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	start := f.clock.now
	for d := 0; d < 3; d++ {
		f.clock.now = start.AddDate(0, 0, d)
		if _, err := f.uc.Refresh(ctx); err != nil {
			t.Fatalf("refresh day %d: %v", d, err)
		}
	}
	out, _ := f.uc.Get(ctx)
	if out.Streak != 3 {
		t.Fatalf("expected streak 3, got %d", out.Streak)
	}
	f.clock.now = start.AddDate(0, 0, 8)
	out, _ = f.uc.Refresh(ctx)
	if out.Streak != 1 {
		t.Fatalf("expected reset streak, got %d", out.Streak)
	}
}

func TestRenameValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.uc.Rename(ctx, "   "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}
	out, err := f.uc.Rename(ctx, "  Sari  ")
	if err != nil || out.Name != "Sari" {
		t.Fatalf("rename: %+v err=%v", out, err)
	}
	board, err := f.uc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	for _, e := range board {
		if e.IsYou {
			t.Fatalf("zero-point learner should not be in the top 10")
		}
	}
}

func TestCorruptProfileFallsBackAndIsRewritten(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	dir := filepath.Join(f.vault, ".urworld", "storage")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, profileoutadapter.ProfileKey+".json"), []byte(`{"streak":"many"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := f.uc.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if out.LoadState != kvstore.StateCorrupt.String() || out.Streak != 1 {
		t.Fatalf("expected corrupt fallback, got %+v", out)
	}
	out, _ = f.uc.Get(ctx)
	if out.LoadState != kvstore.StateOk.String() {
		t.Fatalf("refresh must rewrite a valid profile, got %s", out.LoadState)
	}
}

func TestWriteReportKeepsUserNotes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	path := filepath.Join(f.vault, "progress.md")
	if err := os.WriteFile(path, []byte("# Mine\n\nkeep me\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.progress.quizzes = []progressdto.QuizResultOutput{{QuizID: "quiz-plants", Score: 90}}
	if _, err := f.uc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got, err := f.uc.WriteReport(ctx)
	if err != nil || got != path {
		t.Fatalf("write report: %s err=%v", got, err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	note := string(b)
	if !strings.Contains(note, "keep me") || !strings.Contains(note, "Biology: 25% (1/4)") || !strings.Contains(note, "[x] First Step") {
		t.Fatalf("unexpected report:\n%s", note)
	}
}
