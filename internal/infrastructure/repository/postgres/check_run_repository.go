package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kirillkom/citecheck/internal/core/domain"
)

const schemaLockID int64 = 2026101701

type CheckRunRepository struct {
	db *sql.DB
}

func NewCheckRunRepository(db *sql.DB) *CheckRunRepository {
	return &CheckRunRepository{db: db}
}

func (r *CheckRunRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent api/mcp startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS check_runs (
	id TEXT PRIMARY KEY,
	file_path TEXT NOT NULL,
	output_dir TEXT NOT NULL DEFAULT '',
	success BOOLEAN NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	total_citations INTEGER NOT NULL DEFAULT 0,
	summary JSONB NOT NULL DEFAULT '{}'::jsonb,
	saved_to TEXT NOT NULL DEFAULT '',
	result_folder TEXT NOT NULL DEFAULT '',
	checked_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_check_runs_created_at ON check_runs(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *CheckRunRepository) SaveRun(ctx context.Context, run *domain.CheckRun) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	var checkedAt sql.NullTime
	if run.CheckedAt != nil {
		checkedAt = sql.NullTime{Time: *run.CheckedAt, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO check_runs (
	id, file_path, output_dir, success, error_message, total_citations, summary, saved_to, result_folder, checked_at, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		run.ID, run.FilePath, run.OutputDir, run.Success, run.Error, run.TotalCitations, summaryJSON,
		run.SavedTo, run.ResultFolder, checkedAt, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert check run: %w", err)
	}
	return nil
}

func (r *CheckRunRepository) GetRun(ctx context.Context, id string) (*domain.CheckRun, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, file_path, output_dir, success, error_message, total_citations, summary, saved_to, result_folder, checked_at, created_at
FROM check_runs
WHERE id = $1
`, id)

	var run domain.CheckRun
	var summaryRaw []byte
	var checkedAt sql.NullTime

	err := row.Scan(
		&run.ID, &run.FilePath, &run.OutputDir, &run.Success, &run.Error, &run.TotalCitations,
		&summaryRaw, &run.SavedTo, &run.ResultFolder, &checkedAt, &run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapPublic(domain.ErrRunNotFound, "Check run not found", err)
		}
		return nil, fmt.Errorf("scan check run: %w", err)
	}

	if err := json.Unmarshal(summaryRaw, &run.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	if checkedAt.Valid {
		t := checkedAt.Time
		run.CheckedAt = &t
	}
	return &run, nil
}
