package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	profileout "urworld/internal/modules/profile/port/out"
	"urworld/internal/platform/markdown"
)

const reportHeader = "# UR WORLD progress\n\nNotes outside the generated block are kept.\n"

// VaultReportWriter keeps a generated summary block inside a markdown note.
type VaultReportWriter struct {
	path string
}

func NewVaultReportWriter(path string) profileout.ReportWriter {
	return &VaultReportWriter{path: path}
}

func (w *VaultReportWriter) WriteSummary(_ context.Context, summary string) (string, error) {
	body := reportHeader
	existing, err := os.ReadFile(w.path)
	switch {
	case err == nil:
		body = string(existing)
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	updated := markdown.UpsertBlock(body, "summary", summary)
	if err := os.WriteFile(w.path, []byte(updated), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return w.path, nil
}
