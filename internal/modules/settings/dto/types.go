package dto

// Keys other modules read through Usecase.Enabled.
const (
	KeyAchievementNotifications = "achievementNotifications"
	KeyShowExplanations         = "showExplanations"
	KeyQuizTimer                = "quizTimer"
)

type SettingOutput struct {
	Key     string
	Enabled bool
	Default bool
}

type SettingsOutput struct {
	Values    []SettingOutput
	LoadState string
}

func (o SettingsOutput) Enabled(key string) bool {
	for _, v := range o.Values {
		if v.Key == key {
			return v.Enabled
		}
	}
	return false
}

type SetInput struct {
	Key   string
	Value string
}
