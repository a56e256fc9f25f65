package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage - Postgres реализация storage.KV поверх таблицы kv_items
// (см. migrations/00001_kv_items.sql)
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New открывает пул соединений и проверяет доступность базы
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{pool: pool}, nil
}

func (s *PostgresStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_items WHERE key = $1`

	var value string
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item: %w", err)
	}
	return value, true, nil
}

func (s *PostgresStorage) SetItem(ctx context.Context, key string, value string) error {
	query := `
		INSERT INTO kv_items (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set item: %w", err)
	}
	return nil
}

func (s *PostgresStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_items WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

// Close закрывает пул
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
