package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"urworld/internal/modules/backup/domain"
	"urworld/internal/modules/backup/dto"
	backupin "urworld/internal/modules/backup/port/in"
	backupout "urworld/internal/modules/backup/port/out"
	profilein "urworld/internal/modules/profile/port/in"
	progressin "urworld/internal/modules/progress/port/in"
	quizin "urworld/internal/modules/quiz/port/in"
	settingsin "urworld/internal/modules/settings/port/in"
	"urworld/internal/platform/clock"
	"urworld/internal/platform/logging"
)

type Deps struct {
	Clock      clock.Clock
	Blobs      backupout.BlobStore
	Writers    map[domain.Format]backupout.Writer
	Progress   progressin.Usecase
	Profile    profilein.Usecase
	Settings   settingsin.Usecase
	Quiz       quizin.Usecase
	DefaultDir string
	Logger     *slog.Logger
}

type Interactor struct {
	deps   Deps
	logger *slog.Logger
}

func NewInteractor(deps Deps) backupin.Usecase {
	return &Interactor{deps: deps, logger: logging.OrDiscard(deps.Logger)}
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	format, err := domain.ParseFormat(input.Format)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	writer, ok := i.deps.Writers[format]
	if !ok {
		return dto.ExportOutput{}, fmt.Errorf("no writer for %s exports", format)
	}
	snap, err := i.snapshot(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	dir := input.Dir
	if dir == "" {
		dir = i.deps.DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dto.ExportOutput{}, fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, domain.FileName(format, snap.ExportedAt))
	if err := writer.Write(ctx, path, snap); err != nil {
		return dto.ExportOutput{}, err
	}
	i.logger.Info("progress exported", "path", path, "format", format)
	return dto.ExportOutput{Path: path, Format: string(format), ExportedAt: snap.ExportedAt}, nil
}

// ClearProgress wipes the learner's record. Settings and the daily challenge
// survive.
func (i *Interactor) ClearProgress(ctx context.Context) (dto.ClearOutput, error) {
	var out dto.ClearOutput
	var errs []error
	step := func(name string, fn func() error) {
		if err := fn(); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", name, err))
			return
		}
		out.Cleared = append(out.Cleared, name)
	}
	step(domain.ProfileKey, func() error { return i.deps.Profile.Reset(ctx) })
	step(domain.LedgerKey, func() error { return i.deps.Progress.Reset(ctx) })
	step(domain.LegacyModulesKey, func() error { return i.deps.Blobs.Delete(ctx, domain.LegacyModulesKey) })
	if i.deps.Quiz != nil {
		step(domain.QuizHistoryKey, func() error { return i.deps.Quiz.ClearHistory(ctx) })
	}
	return out, errors.Join(errs...)
}

func (i *Interactor) snapshot(ctx context.Context) (dto.Snapshot, error) {
	snap := dto.Snapshot{ExportedAt: i.deps.Clock.Now(), Raw: map[string]json.RawMessage{}}
	for _, key := range []string{domain.ProfileKey, domain.SettingsKey, domain.LegacyModulesKey, domain.LedgerKey} {
		raw, ok, err := i.deps.Blobs.Raw(ctx, key)
		if err != nil {
			i.logger.Warn("stored document skipped in export", "key", key, "error", err)
			continue
		}
		if ok {
			snap.Raw[key] = raw
		}
	}
	profile, err := i.deps.Profile.Get(ctx)
	if err != nil {
		return dto.Snapshot{}, fmt.Errorf("load profile: %w", err)
	}
	snap.Profile = profile
	snap.Modules = i.deps.Progress.ListModules(ctx, "")
	snap.Ledger = i.deps.Progress.Snapshot(ctx)
	snap.Settings = i.deps.Settings.List(ctx)
	return snap, nil
}
