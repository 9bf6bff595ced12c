package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "urworld/internal/platform/errors"
)

// Storage keys the backup reads or clears.
const (
	ProfileKey       = "urworld_profile"
	SettingsKey      = "urworld_settings"
	LedgerKey        = "urworld_module_progress"
	LegacyModulesKey = "completedModules"
	QuizHistoryKey   = "urworld_quiz_history"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", apperrors.ErrInvalidInput, raw)
}

// FileName is "urworld-data-<unix ms>.<ext>".
func FileName(f Format, at time.Time) string {
	return fmt.Sprintf("urworld-data-%d.%s", at.UnixMilli(), f)
}
