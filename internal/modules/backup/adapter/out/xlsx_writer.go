package out

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"urworld/internal/modules/backup/dto"
	backupout "urworld/internal/modules/backup/port/out"
)

const (
	sheetProfile  = "Profile"
	sheetModules  = "Modules"
	sheetQuizzes  = "Quizzes"
	sheetSettings = "Settings"
)

// XLSXWriter lays the derived progress out as a workbook with one sheet per
// concern.
type XLSXWriter struct{}

func NewXLSXWriter() backupout.Writer { return XLSXWriter{} }

func (XLSXWriter) Write(_ context.Context, path string, snap dto.Snapshot) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	p := snap.Profile
	profileRows := [][]any{
		{"Field", "Value"},
		{"Name", p.Name},
		{"Level", p.Level},
		{"Total points", p.TotalPoints},
		{"Bonus points", p.BonusPoints},
		{"Completed modules", p.CompletedModules},
		{"Achievements", p.Achievements},
		{"Streak", p.Streak},
		{"Last visit", p.LastVisit},
		{"Exported", snap.ExportedAt.Format(time.RFC3339)},
	}
	for _, s := range p.Progress {
		profileRows = append(profileRows, []any{s.Title + " progress", fmt.Sprintf("%d%%", s.Percent)})
	}
	for _, b := range p.Badges {
		state := "locked"
		if b.Unlocked {
			state = "unlocked"
		}
		profileRows = append(profileRows, []any{"Badge: " + b.Name, state})
	}

	moduleRows := [][]any{{"Module", "Subject", "Title", "Unlocked", "Read", "Quiz completed", "Best score"}}
	for _, m := range snap.Modules {
		moduleRows = append(moduleRows, []any{m.ModuleID, m.Subject, m.Title, m.Unlocked, m.Read, m.QuizCompleted, m.BestScore})
	}

	quizRows := [][]any{{"Quiz", "Module", "Subject", "Score", "Completed at"}}
	for _, q := range snap.Ledger.Quizzes {
		quizRows = append(quizRows, []any{q.QuizID, q.ModuleID, q.Subject, q.Score, q.CompletedAt.Format(time.RFC3339)})
	}

	settingRows := [][]any{{"Setting", "Enabled", "Default"}}
	for _, s := range snap.Settings.Values {
		settingRows = append(settingRows, []any{s.Key, s.Enabled, s.Default})
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{sheetProfile, profileRows},
		{sheetModules, moduleRows},
		{sheetQuizzes, quizRows},
		{sheetSettings, settingRows},
	}
	for _, sh := range sheets {
		if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", sh.name, r+1, err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(sheetProfile); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
