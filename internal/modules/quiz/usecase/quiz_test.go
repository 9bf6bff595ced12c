package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	challengeoutadapter "urworld/internal/modules/challenge/adapter/out"
	challengeservice "urworld/internal/modules/challenge/service"
	challengeusecase "urworld/internal/modules/challenge/usecase"
	profileoutadapter "urworld/internal/modules/profile/adapter/out"
	profileservice "urworld/internal/modules/profile/service"
	profileusecase "urworld/internal/modules/profile/usecase"
	progressoutadapter "urworld/internal/modules/progress/adapter/out"
	progressin "urworld/internal/modules/progress/port/in"
	progressservice "urworld/internal/modules/progress/service"
	progressusecase "urworld/internal/modules/progress/usecase"
	quizoutadapter "urworld/internal/modules/quiz/adapter/out"
	"urworld/internal/modules/quiz/dto"
	quizin "urworld/internal/modules/quiz/port/in"
	"urworld/internal/modules/quiz/service"
	"urworld/internal/modules/quiz/usecase"
	settingsoutadapter "urworld/internal/modules/settings/adapter/out"
	settingsdto "urworld/internal/modules/settings/dto"
	settingsin "urworld/internal/modules/settings/port/in"
	settingsservice "urworld/internal/modules/settings/service"
	settingsusecase "urworld/internal/modules/settings/usecase"
	"urworld/internal/platform/catalog"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/kvstore"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return fmt.Sprintf("attempt-%d", s.n)
}

type fixture struct {
	quiz     quizin.Usecase
	progress progressin.Usecase
	settings settingsin.Usecase
	clock    *fakeClock
	vault    string
}

func newFixture(t *testing.T, day time.Time) fixture {
	t.Helper()
	vault := t.TempDir()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	local := kvstore.NewFileStore(filepath.Join(vault, ".urworld", "storage"))
	session := kvstore.NewFileStore(filepath.Join(vault, ".urworld", "session"))
	clk := &fakeClock{now: day}

	ledgerStore, err := progressoutadapter.NewKVLedgerStore(local)
	if err != nil {
		t.Fatalf("ledger store: %v", err)
	}
	observer := progressoutadapter.NewChallengeObserver(nil)
	progress := progressusecase.NewInteractor(progressservice.NewLedgerService(clk, cat, ledgerStore, nil, nil), clk, nil, observer)

	profileStore, err := profileoutadapter.NewKVProfileStore(local)
	if err != nil {
		t.Fatalf("profile store: %v", err)
	}
	profile := profileusecase.NewInteractor(profileservice.NewProfileService(clk, cat, profileStore, nil), progress, nil, nil)

	challengeStore, err := challengeoutadapter.NewKVChallengeStore(local)
	if err != nil {
		t.Fatalf("challenge store: %v", err)
	}
	challenge := challengeusecase.NewInteractor(challengeservice.NewChallengeService(clk, challengeStore, nil), clk, challengeoutadapter.NewProfileRewardSink(profile), nil, nil)
	observer.Bind(challenge)

	settingsStore, err := settingsoutadapter.NewKVSettingsStore(local)
	if err != nil {
		t.Fatalf("settings store: %v", err)
	}
	settings := settingsusecase.NewInteractor(settingsservice.NewSettingsService(settingsStore, nil))

	history, err := quizoutadapter.NewKVHistoryStore(local)
	if err != nil {
		t.Fatalf("history store: %v", err)
	}
	svc := service.NewQuizService(clk, &seqIDs{}, cat, quizoutadapter.NewKVSessionStore(session), history, nil)
	quiz := usecase.NewInteractor(usecase.Deps{
		Service:   svc,
		Clock:     clk,
		Progress:  progress,
		Profile:   profile,
		Challenge: challenge,
		Settings:  settings,
		Notes:     quizoutadapter.NewVaultNoteWriter(filepath.Join(vault, "attempts")),
	})
	return fixture{quiz: quiz, progress: progress, settings: settings, clock: clk, vault: vault}
}

func (f fixture) tick(d time.Duration) { f.clock.now = f.clock.now.Add(d) }

// play answers every question of the mercury quiz with the given choices,
// spending step on each.
func (f fixture) play(t *testing.T, choices []int, step time.Duration) dto.ResultOutput {
	t.Helper()
	ctx := context.Background()
	if _, err := f.quiz.Start(ctx, "quiz-mercury"); err != nil {
		t.Fatalf("start: %v", err)
	}
	for n, choice := range choices {
		f.tick(step)
		if _, err := f.quiz.Answer(ctx, dto.AnswerInput{QuizID: "quiz-mercury", Choice: choice}); err != nil {
			t.Fatalf("answer %d: %v", n+1, err)
		}
		out, err := f.quiz.Next(ctx, "quiz-mercury")
		if err != nil {
			t.Fatalf("next %d: %v", n+1, err)
		}
		if n < len(choices)-1 {
			if out.Completed || out.Question.Number != n+2 {
				t.Fatalf("expected question %d, got %+v", n+2, out)
			}
			continue
		}
		if !out.Completed {
			t.Fatalf("expected completion after last question")
		}
		return out.Result
	}
	t.Fatalf("no choices given")
	return dto.ResultOutput{}
}

var mercuryCorrect = []int{1, 0, 1}

func TestFreshLearnerFirstModuleScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))

	read, err := f.progress.MarkModuleRead(ctx, "physics-1")
	if err != nil || !read.Changed {
		t.Fatalf("mark read: %+v err=%v", read, err)
	}
	res := f.play(t, mercuryCorrect, 20*time.Second)

	if res.Score != 100 || res.Stars != 3 || !res.Passed || res.Seconds != 60 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.UnlockedModuleID != "physics-2" || !f.progress.IsModuleUnlocked(ctx, "physics-2") {
		t.Fatalf("physics-2 should be unlocked, got %q", res.UnlockedModuleID)
	}
	p := res.Profile
	if p.CompletedModules != 1 || p.TotalPoints != 100 || p.Level != 1 {
		t.Fatalf("unexpected profile counters %+v", p)
	}
	if len(p.NewBadges) != 1 || p.NewBadges[0].ID != "first-module" {
		t.Fatalf("expected first-module badge, got %+v", p.NewBadges)
	}
	if len(p.Activities) != 2 {
		t.Fatalf("expected badge and quiz activities, got %+v", p.Activities)
	}
	if res.Challenge.ID != "read_modules" || res.Challenge.Progress != 1 || res.ChallengeCompleted {
		t.Fatalf("quiz events must not move the reading challenge: %+v", res.Challenge)
	}

	if _, err := f.quiz.Current(ctx, "quiz-mercury"); !errors.Is(err, apperrors.ErrNoActiveAttempt) {
		t.Fatalf("session must be cleared on completion, got %v", err)
	}
	hist, err := f.quiz.History(ctx, "quiz-mercury")
	if err != nil || len(hist.Entries) != 1 || hist.Best != 100 || !hist.Entries[0].PerfectScore {
		t.Fatalf("unexpected history %+v err=%v", hist, err)
	}
	note, err := os.ReadFile(res.NotePath)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.HasPrefix(res.NotePath, filepath.Join(f.vault, "attempts", "2026", "10", "16")) ||
		!strings.Contains(string(note), "score: 100") || !strings.Contains(string(note), "# Mercury quiz") {
		t.Fatalf("unexpected note at %s:\n%s", res.NotePath, note)
	}
}

func TestStartRequiresReadModule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	if _, err := f.quiz.Start(ctx, "quiz-mercury"); !errors.Is(err, apperrors.ErrLocked) {
		t.Fatalf("expected locked quiz, got %v", err)
	}
	if _, err := f.quiz.Start(ctx, "quiz-pluto"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected unknown quiz, got %v", err)
	}
}

func TestAnswerGuardsAndResume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	if _, err := f.progress.MarkModuleRead(ctx, "physics-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	view, err := f.quiz.Start(ctx, "quiz-mercury-1")
	if err != nil || view.Number != 1 || view.Total != 3 || view.Revealed || view.QuizID != "quiz-mercury" {
		t.Fatalf("start: %+v err=%v", view, err)
	}
	if _, err := f.quiz.Next(ctx, "quiz-mercury"); !errors.Is(err, apperrors.ErrAnswerPending) {
		t.Fatalf("expected answer pending, got %v", err)
	}
	if _, err := f.quiz.Answer(ctx, dto.AnswerInput{QuizID: "quiz-mercury", Choice: 9}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid choice, got %v", err)
	}
	view, err = f.quiz.Answer(ctx, dto.AnswerInput{QuizID: "quiz-mercury", Choice: 0})
	if err != nil || !view.Revealed || view.Correct || view.CorrectAnswer != 1 || view.Explanation == "" {
		t.Fatalf("answer: %+v err=%v", view, err)
	}
	view, err = f.quiz.Answer(ctx, dto.AnswerInput{QuizID: "quiz-mercury", Choice: 1})
	if err != nil || !view.Ignored || view.Chosen != 0 || view.CorrectCount != 0 {
		t.Fatalf("second answer must be ignored: %+v err=%v", view, err)
	}

	resumed, err := f.quiz.Start(ctx, "quiz-mercury")
	if err != nil || !resumed.Resumed || !resumed.Revealed || resumed.AttemptID != view.AttemptID {
		t.Fatalf("expected resumed attempt, got %+v err=%v", resumed, err)
	}
	if err := f.quiz.Abandon(ctx, "quiz-mercury"); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if err := f.quiz.Abandon(ctx, "quiz-mercury"); !errors.Is(err, apperrors.ErrNoActiveAttempt) {
		t.Fatalf("expected no active attempt, got %v", err)
	}
	fresh, _ := f.quiz.Start(ctx, "quiz-mercury")
	if fresh.Resumed || fresh.AttemptID == view.AttemptID {
		t.Fatalf("abandon must discard the attempt, got %+v", fresh)
	}
}

func TestStaleSessionIsDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	if _, err := f.progress.MarkModuleRead(ctx, "physics-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if _, err := f.quiz.Start(ctx, "quiz-mercury"); err != nil {
		t.Fatalf("start: %v", err)
	}
	path := filepath.Join(f.vault, ".urworld", "session", "quiz-mercury_score.json")
	stale := `{"schemaVersion":1,"attemptId":"attempt-1","quizId":"quiz-mercury","moduleId":"physics-1",` +
		`"questionIndex":5,"totalQuestions":10,"correctCount":0,"startTime":"2026-10-16T09:00:00Z",` +
		`"endTime":null,"state":"awaiting_answer","answers":[]}`
	if err := os.WriteFile(path, []byte(stale), 0o644); err != nil {
		t.Fatalf("write session: %v", err)
	}

	if _, err := f.quiz.Current(ctx, "quiz-mercury"); !errors.Is(err, apperrors.ErrNoActiveAttempt) {
		t.Fatalf("expected no active attempt, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("stale session must be removed, stat err=%v", err)
	}
	if _, err := f.quiz.Answer(ctx, dto.AnswerInput{QuizID: "quiz-mercury", Choice: 1}); !errors.Is(err, apperrors.ErrNoActiveAttempt) {
		t.Fatalf("expected no active attempt on answer, got %v", err)
	}
	view, err := f.quiz.Start(ctx, "quiz-mercury")
	if err != nil || view.Resumed || view.Number != 1 || view.Total != 3 {
		t.Fatalf("expected a fresh attempt, got %+v err=%v", view, err)
	}
}

func TestFailedAttemptStillUnlocksNextModule(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	if _, err := f.progress.MarkModuleRead(ctx, "physics-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	res := f.play(t, []int{0, 1, 0}, 5*time.Second)
	if res.Score != 0 || res.Passed || res.Stars != 0 || res.Rating != "retry" {
		t.Fatalf("unexpected failing result %+v", res)
	}
	if res.UnlockedModuleID != "physics-2" {
		t.Fatalf("any ledger entry unlocks the next module, got %q", res.UnlockedModuleID)
	}
	for _, a := range res.Profile.Activities {
		if strings.HasPrefix(a.Title, "Completed quiz") {
			t.Fatalf("failed attempt must not add a quiz activity")
		}
	}
}

func TestSpeedChallengeRewardsProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC))
	if _, err := f.progress.MarkModuleRead(ctx, "physics-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	res := f.play(t, mercuryCorrect, 15*time.Second)
	if res.Seconds != 45 || !res.ChallengeCompleted || !res.Challenge.RewardCredited {
		t.Fatalf("expected speed run completion, got %+v", res.Challenge)
	}
	if res.Profile.TotalPoints != 250 || res.Profile.BonusPoints != 150 {
		t.Fatalf("expected 100 quiz points plus 150 bonus, got %+v", res.Profile)
	}
	if res.Profile.Activities[0].Title != "Earned 150 bonus points: Daily challenge: Speed Run" {
		t.Fatalf("unexpected latest activity %+v", res.Profile.Activities[0])
	}
}

func TestSettingsShapeTheView(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	if _, err := f.settings.Set(ctx, settingsdto.SetInput{Key: settingsdto.KeyShowExplanations, Value: "off"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := f.settings.Set(ctx, settingsdto.SetInput{Key: settingsdto.KeyQuizTimer, Value: "on"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := f.progress.MarkModuleRead(ctx, "physics-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if _, err := f.quiz.Start(ctx, "quiz-mercury"); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.tick(12 * time.Second)
	view, err := f.quiz.Answer(ctx, dto.AnswerInput{QuizID: "quiz-mercury", Choice: 1})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if view.Explanation != "" || !view.ShowTimer || view.ElapsedSeconds != 12 {
		t.Fatalf("unexpected view %+v", view)
	}
}
