package handoff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStore keeps paths in the client_storage table. Both supported drivers
// accept $n placeholders and ON CONFLICT upserts.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, clientID string) (string, error) {
	var p string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_storage WHERE client_id = $1 AND key = $2`,
		clientID, Key,
	).Scan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get syllabus path: %w", err)
	}
	return p, nil
}

func (s *SQLStore) Set(ctx context.Context, clientID, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_storage (client_id, key, value, updated_at)
		 VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		 ON CONFLICT (client_id, key)
		 DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		clientID, Key, path,
	)
	if err != nil {
		return fmt.Errorf("set syllabus path: %w", err)
	}
	return nil
}
