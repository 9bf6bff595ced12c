package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	settingsoutadapter "urworld/internal/modules/settings/adapter/out"
	"urworld/internal/modules/settings/domain"
	"urworld/internal/modules/settings/dto"
	settingsin "urworld/internal/modules/settings/port/in"
	"urworld/internal/modules/settings/service"
	"urworld/internal/modules/settings/usecase"
	apperrors "urworld/internal/platform/errors"
	"urworld/internal/platform/kvstore"
)

func newUsecase(t *testing.T) (settingsin.Usecase, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := settingsoutadapter.NewKVSettingsStore(kvstore.NewFileStore(dir))
	if err != nil {
		t.Fatalf("settings store: %v", err)
	}
	return usecase.NewInteractor(service.NewSettingsService(store, nil)), dir
}

func TestDefaultsWhenMissing(t *testing.T) {
	t.Parallel()
	uc, _ := newUsecase(t)
	out := uc.List(context.Background())
	if out.LoadState != kvstore.StateMissing.String() || len(out.Values) != len(domain.Keys) {
		t.Fatalf("unexpected output %+v", out)
	}
	if !out.Enabled(domain.ShowExplanations) || out.Enabled(domain.QuizTimer) {
		t.Fatalf("unexpected defaults %+v", out.Values)
	}
}

func TestSetPersistsAndResetRestores(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _ := newUsecase(t)
	if _, err := uc.Set(ctx, dto.SetInput{Key: "quizTimer", Value: "on"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !uc.Enabled(ctx, domain.QuizTimer) {
		t.Fatalf("quiz timer should be on")
	}
	if _, err := uc.Set(ctx, dto.SetInput{Key: "warpDrive", Value: "on"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown key, got %v", err)
	}
	out, err := uc.Reset(ctx)
	if err != nil || out.Enabled(domain.QuizTimer) {
		t.Fatalf("reset: %+v err=%v", out, err)
	}
}

func TestPartialBlobMergesOverDefaults(t *testing.T) {
	t.Parallel()
	uc, dir := newUsecase(t)
	if err := os.WriteFile(filepath.Join(dir, settingsoutadapter.SettingsKey+".json"), []byte(`{"darkMode":true}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := uc.List(context.Background())
	if out.LoadState != kvstore.StateOk.String() || !out.Enabled(domain.DarkMode) || !out.Enabled(domain.Sounds) {
		t.Fatalf("unexpected merged settings %+v", out)
	}
}

func TestCorruptBlobFallsBack(t *testing.T) {
	t.Parallel()
	uc, dir := newUsecase(t)
	if err := os.WriteFile(filepath.Join(dir, settingsoutadapter.SettingsKey+".json"), []byte(`{"darkMode":"yes"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := uc.List(context.Background())
	if out.LoadState != kvstore.StateCorrupt.String() || out.Enabled(domain.DarkMode) {
		t.Fatalf("expected defaults after corrupt blob, got %+v", out)
	}
}
