package kv

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of Store. Each key maps
// to one row of a blob table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed substrate.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Setup creates the blob table if it does not exist.
func (p *PostgresStore) Setup(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_blobs (
			key   TEXT PRIMARY KEY,
			value BYTEA NOT NULL
		)
	`

	_, err := p.pool.Exec(ctx, query)

	return err
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_blobs WHERE key = $1`

	var value []byte

	err := p.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}

		return nil, err
	}

	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_blobs (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	_, err := p.pool.Exec(ctx, query, key, value)

	return err
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_blobs WHERE key = $1`

	_, err := p.pool.Exec(ctx, query, key)

	return err
}
