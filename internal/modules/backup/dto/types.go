package dto

import (
	"encoding/json"
	"time"

	profiledto "urworld/internal/modules/profile/dto"
	progressdto "urworld/internal/modules/progress/dto"
	settingsdto "urworld/internal/modules/settings/dto"
)

type ExportInput struct {
	Format string
	Dir    string
}

type ExportOutput struct {
	Path       string
	Format     string
	ExportedAt time.Time
}

// Snapshot is everything an export writer may need. Raw holds stored
// documents by key; absent keys are nil.
type Snapshot struct {
	ExportedAt time.Time
	Raw        map[string]json.RawMessage
	Profile    profiledto.ProfileOutput
	Modules    []progressdto.ModuleStatusOutput
	Ledger     progressdto.LedgerOutput
	Settings   settingsdto.SettingsOutput
}

type ClearOutput struct {
	Cleared []string
}
