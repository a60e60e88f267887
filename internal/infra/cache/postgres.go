package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// PostgresKV stores cache entries in a single table. Expiry is an epoch
// column filtered on read; a periodic external cleanup may purge dead rows,
// so reads never trust a row past its epoch.
type PostgresKV struct {
	DB *sql.DB
}

func NewPostgresKV(db *sql.DB) *PostgresKV {
	return &PostgresKV{DB: db}
}

func (s *PostgresKV) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cache_entries (
			key        TEXT PRIMARY KEY,
			payload    BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at BIGINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure cache schema: %w", err)
	}
	return nil
}

func (s *PostgresKV) Get(ctx context.Context, key string) (*Entry, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT payload, created_at, expires_at
		FROM cache_entries
		WHERE key = $1 AND expires_at > $2
	`, key, time.Now().Unix())

	var e Entry
	var expiresEpoch int64
	e.Key = key
	if err := row.Scan(&e.Payload, &e.CreatedAt, &expiresEpoch); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	e.ExpiresAt = time.Unix(expiresEpoch, 0)
	return &e, nil
}

func (s *PostgresKV) Put(ctx context.Context, e Entry) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO cache_entries (key, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload,
		    created_at = EXCLUDED.created_at,
		    expires_at = EXCLUDED.expires_at
	`, e.Key, e.Payload, e.CreatedAt, e.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("cache put %s: %w", e.Key, err)
	}
	return nil
}

func (s *PostgresKV) Delete(ctx context.Context, key string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = $1`, key)
	if err != nil {
		return false, fmt.Errorf("cache delete %s: %w", key, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeletePrefix runs a LIKE scan over the key column. No prefix index backs
// this pattern, so it is a sequential scan.
func (s *PostgresKV) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE key LIKE $1 ESCAPE '\'`,
		escapeLike(prefix)+"%")
	if err != nil {
		return 0, fmt.Errorf("cache delete prefix %s: %w", prefix, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
