package domain

import (
	"fmt"
	"strconv"
	"strings"

	"urworld/internal/modules/settings/dto"
	apperrors "urworld/internal/platform/errors"
)

const (
	DarkMode                 = "darkMode"
	Animations               = "animations"
	AchievementNotifications = dto.KeyAchievementNotifications
	StudyReminders           = "studyReminders"
	Sounds                   = "sounds"
	PracticeMode             = "practiceMode"
	ShowExplanations         = dto.KeyShowExplanations
	QuizTimer                = dto.KeyQuizTimer
)

// Keys lists every toggle in display order.
var Keys = []string{
	DarkMode, Animations, AchievementNotifications, StudyReminders,
	Sounds, PracticeMode, ShowExplanations, QuizTimer,
}

var defaults = map[string]bool{
	DarkMode:                 false,
	Animations:               true,
	AchievementNotifications: true,
	StudyReminders:           false,
	Sounds:                   true,
	PracticeMode:             true,
	ShowExplanations:         true,
	QuizTimer:                false,
}

type Settings map[string]bool

func Defaults() Settings {
	out := make(Settings, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

func Default(key string) bool { return defaults[key] }

func Known(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Merge lays stored values over the defaults. Keys that are no longer known
// are dropped.
func Merge(stored map[string]bool) Settings {
	out := Defaults()
	for k, v := range stored {
		if Known(k) {
			out[k] = v
		}
	}
	return out
}

func (s Settings) Enabled(key string) bool {
	v, ok := s[key]
	if !ok {
		return defaults[key]
	}
	return v
}

// ResolveKey accepts the canonical key in any letter case.
func ResolveKey(key string) (string, error) {
	for _, k := range Keys {
		if strings.EqualFold(k, strings.TrimSpace(key)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown setting %q", apperrors.ErrInvalidInput, key)
}

// ParseValue reads on/off style values as well as strconv booleans.
func ParseValue(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "enable", "enabled":
		return true, nil
	case "off", "no", "disable", "disabled":
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", apperrors.ErrInvalidInput, raw)
	}
	return v, nil
}
