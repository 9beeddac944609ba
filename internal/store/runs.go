package store

import (
	"context"
	"fmt"

	"github.com/roach88/weekfn/internal/session"
)

// RecordRuns appends executed batch events to the run log.
// Re-recording an event with the same (query_id, seq) is a no-op.
func (s *Store) RecordRuns(ctx context.Context, events []session.Event) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record runs: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weekfn_runs (query_id, seq, function, fingerprint, path, row_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (query_id, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("record runs: prepare: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err = stmt.ExecContext(ctx, ev.QueryID, ev.Seq, ev.Function, ev.Fingerprint, ev.Path, ev.Rows, ev.Error); err != nil {
			return fmt.Errorf("record run %s/%d: %w", ev.QueryID, ev.Seq, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("record runs: commit: %w", err)
	}
	return nil
}

// Runs returns the logged events of a query ordered by seq.
func (s *Store) Runs(ctx context.Context, queryID string) ([]session.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query_id, seq, function, fingerprint, path, row_count, error
		FROM weekfn_runs
		WHERE query_id = ?
		ORDER BY seq ASC, id ASC
	`, queryID)
	if err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	defer rows.Close()

	var events []session.Event
	for rows.Next() {
		var ev session.Event
		if err := rows.Scan(&ev.QueryID, &ev.Seq, &ev.Function, &ev.Fingerprint, &ev.Path, &ev.Rows, &ev.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	return events, nil
}
