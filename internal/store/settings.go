package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Get returns the value stored under (organization, application, key). A
// missing key yields "" and a nil error.
func (s *Store) Get(ctx context.Context, organization, application, key string) (string, error) {
	ctx = ensureContext(ctx)
	var value string
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT value FROM settings WHERE organization = ? AND application = ? AND key = ?`,
			organization, application, key,
		).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s/%s/%s: %w", organization, application, key, err)
	}
	return value, nil
}

// Set stores value under (organization, application, key), replacing any
// previous value.
func (s *Store) Set(ctx context.Context, organization, application, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("setting key must not be empty")
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO settings (organization, application, key, value, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(organization, application, key)
		 DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		organization, application, key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set setting %s/%s/%s: %w", organization, application, key, err)
	}
	return nil
}
