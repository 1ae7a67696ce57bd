package storage

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStorage 使用 schedule_storage 表保存文档：
//
//	CREATE TABLE schedule_storage (
//		key        TEXT PRIMARY KEY,
//		value      TEXT NOT NULL,
//		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresStorage struct {
	dbpool *sql.DB
}

func NewPostgresStorage(dbpool *sql.DB) *PostgresStorage {
	return &PostgresStorage{dbpool: dbpool}
}

func (s *PostgresStorage) Load(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM schedule_storage WHERE key = $1`

	var value string
	if err := s.dbpool.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return []byte(value), nil
}

func (s *PostgresStorage) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO schedule_storage (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.dbpool.ExecContext(ctx, query, key, string(data)); err != nil {
		return err
	}

	return nil
}
