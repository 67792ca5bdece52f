// Package runs persists the outcome of reconciliation runs for later review.
package runs

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Run is the persisted record of one reconciliation pass.
type Run struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	SourceFile string    `json:"sourceFile"`
	Format     string    `json:"format"`
	Employees  int       `json:"employees"`
	Processed  int       `json:"processed"`
	Excluded   int       `json:"excluded"`
	Errored    int       `json:"errored"`
	Matched    int       `json:"matched"`
	Unmatched  int       `json:"unmatched"`
	DurationMs int64     `json:"durationMs"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, `
    CREATE TABLE IF NOT EXISTS reconciliation_runs (
      id          TEXT PRIMARY KEY,
      created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
      source_file TEXT NOT NULL,
      format      TEXT NOT NULL,
      employees   INT NOT NULL,
      processed   INT NOT NULL,
      excluded    INT NOT NULL,
      errored     INT NOT NULL,
      matched     INT NOT NULL,
      unmatched   INT NOT NULL,
      duration_ms BIGINT NOT NULL
    )
  `)
	return err
}

func (s *Store) Insert(ctx context.Context, run Run) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO reconciliation_runs
      (id, created_at, source_file, format, employees, processed, excluded, errored, matched, unmatched, duration_ms)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `, run.ID, run.CreatedAt, run.SourceFile, run.Format, run.Employees, run.Processed,
		run.Excluded, run.Errored, run.Matched, run.Unmatched, run.DurationMs)
	return err
}

func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, created_at, source_file, format, employees, processed, excluded, errored, matched, unmatched, duration_ms
    FROM reconciliation_runs
    ORDER BY created_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.SourceFile, &r.Format, &r.Employees,
			&r.Processed, &r.Excluded, &r.Errored, &r.Matched, &r.Unmatched, &r.DurationMs); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
