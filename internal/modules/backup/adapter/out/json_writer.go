package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"urworld/internal/modules/backup/domain"
	"urworld/internal/modules/backup/dto"
	backupout "urworld/internal/modules/backup/port/out"
)

type exportDocument struct {
	Profile          json.RawMessage `json:"profile"`
	Settings         json.RawMessage `json:"settings"`
	CompletedModules json.RawMessage `json:"completedModules"`
	Progress         json.RawMessage `json:"progress"`
	ExportDate       string          `json:"exportDate"`
}

// JSONWriter emits the stored documents as they are, so the export can be
// imported back into any client that shares the storage layout.
type JSONWriter struct{}

func NewJSONWriter() backupout.Writer { return JSONWriter{} }

func (JSONWriter) Write(_ context.Context, path string, snap dto.Snapshot) error {
	doc := exportDocument{
		Profile:          rawOr(snap.Raw[domain.ProfileKey], "{}"),
		Settings:         rawOr(snap.Raw[domain.SettingsKey], "{}"),
		CompletedModules: rawOr(snap.Raw[domain.LegacyModulesKey], "[]"),
		Progress:         rawOr(snap.Raw[domain.LedgerKey], "{}"),
		ExportDate:       snap.ExportedAt.UTC().Format(time.RFC3339Nano),
	}
	if snap.Raw[domain.SettingsKey] == nil {
		settings := map[string]bool{}
		for _, v := range snap.Settings.Values {
			settings[v.Key] = v.Enabled
		}
		if encoded, err := json.Marshal(settings); err == nil {
			doc.Settings = encoded
		}
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func rawOr(raw json.RawMessage, fallback string) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(fallback)
	}
	return raw
}
