package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"urworld/internal/modules/progress/domain"
	progressout "urworld/internal/modules/progress/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteLedgerProjector struct {
	db *sql.DB
}

func NewSQLiteLedgerProjector(dbPath string) (*SQLiteLedgerProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteLedgerProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

var _ progressout.LedgerProjector = (*SQLiteLedgerProjector)(nil)

func (s *SQLiteLedgerProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS module_reads (
  module_id TEXT PRIMARY KEY,
  subject TEXT NOT NULL,
  read_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS quiz_results (
  quiz_id TEXT PRIMARY KEY,
  module_id TEXT NOT NULL,
  subject TEXT NOT NULL,
  best_score INTEGER NOT NULL,
  completed_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create ledger tables: %w", err)
	}
	return nil
}

func (s *SQLiteLedgerProjector) Close() error {
	return s.db.Close()
}

func (s *SQLiteLedgerProjector) Reset(ctx context.Context) error {
	for _, table := range []string{"module_reads", "quiz_results"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLiteLedgerProjector) UpsertModuleRead(ctx context.Context, moduleID, subject string, at time.Time) error {
	const stmt = `
INSERT INTO module_reads (module_id, subject, read_at)
VALUES (?, ?, ?)
ON CONFLICT(module_id) DO UPDATE SET
  subject=excluded.subject,
  read_at=excluded.read_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, moduleID, subject, at.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upsert module read: %w", err)
	}
	return nil
}

func (s *SQLiteLedgerProjector) UpsertQuizResult(ctx context.Context, record domain.QuizRecord, moduleID, subject string) error {
	const stmt = `
INSERT INTO quiz_results (quiz_id, module_id, subject, best_score, completed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(quiz_id) DO UPDATE SET
  module_id=excluded.module_id,
  subject=excluded.subject,
  best_score=excluded.best_score,
  completed_at=excluded.completed_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, record.QuizID, moduleID, subject, record.Score, record.CompletedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upsert quiz result: %w", err)
	}
	return nil
}
