package service

import (
	"context"
	"fmt"
	"log/slog"

	"urworld/internal/modules/settings/domain"
	settingsout "urworld/internal/modules/settings/port/out"
	"urworld/internal/platform/kvstore"
	"urworld/internal/platform/logging"
)

type SettingsService struct {
	store  settingsout.SettingsStore
	logger *slog.Logger
}

func NewSettingsService(store settingsout.SettingsStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logging.OrDiscard(logger)}
}

func (s *SettingsService) Load(ctx context.Context) (domain.Settings, kvstore.State) {
	res := s.store.Load(ctx)
	if res.State == kvstore.StateCorrupt {
		s.logger.Warn("settings unreadable, using defaults", "error", res.Err)
	}
	return domain.Merge(res.Value), res.State
}

func (s *SettingsService) Set(ctx context.Context, key string, value bool) (domain.Settings, error) {
	current, _ := s.Load(ctx)
	current[key] = value
	if err := s.store.Save(ctx, current); err != nil {
		return current, fmt.Errorf("save settings: %w", err)
	}
	return current, nil
}

func (s *SettingsService) Reset(ctx context.Context) (domain.Settings, error) {
	defaults := domain.Defaults()
	if err := s.store.Save(ctx, defaults); err != nil {
		return defaults, fmt.Errorf("reset settings: %w", err)
	}
	return defaults, nil
}
