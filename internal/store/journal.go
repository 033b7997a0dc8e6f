package store

import (
	"context"
	"fmt"
	"time"
)

// journalTimeLayout is fixed-width so renamed_at text sorts in time order.
const journalTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// JournalEntry is one persisted rename outcome.
type JournalEntry struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	SourcePath string    `json:"source_path"`
	TargetPath string    `json:"target_path"`
	Status     string    `json:"status"`
	Success    bool      `json:"success"`
	Detail     string    `json:"detail"`
	RenamedAt  time.Time `json:"renamed_at"`
}

// RecordRename appends entry to the journal. A zero RenamedAt is stamped with
// the current time.
func (s *Store) RecordRename(ctx context.Context, entry JournalEntry) error {
	if entry.RenamedAt.IsZero() {
		entry.RenamedAt = time.Now()
	}
	success := 0
	if entry.Success {
		success = 1
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO renames (run_id, source_path, target_path, status, success, detail, renamed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.SourcePath, entry.TargetPath, entry.Status, success, entry.Detail,
		entry.RenamedAt.UTC().Format(journalTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("record rename: %w", err)
	}
	return nil
}

// ListRenames returns up to limit journal entries, newest first. A
// non-positive limit returns every entry.
func (s *Store) ListRenames(ctx context.Context, limit int) ([]JournalEntry, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, run_id, source_path, target_path, status, success, detail, renamed_at
		FROM renames ORDER BY renamed_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list renames: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var (
			entry     JournalEntry
			success   int
			renamedAt string
		)
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.SourcePath, &entry.TargetPath,
			&entry.Status, &success, &entry.Detail, &renamedAt); err != nil {
			return nil, fmt.Errorf("scan rename: %w", err)
		}
		entry.Success = success != 0
		if ts, parseErr := time.Parse(journalTimeLayout, renamedAt); parseErr == nil {
			entry.RenamedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renames: %w", err)
	}
	return entries, nil
}
