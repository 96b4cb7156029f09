package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSeenTable = `CREATE TABLE IF NOT EXISTS seen (url TEXT PRIMARY KEY)`

type PostgresStore struct {
	db *pgxpool.Pool
}

func ConnectPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers (PgBouncer) don't support prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if _, err := pool.Exec(ctx, createSeenTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create seen table: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

func (s *PostgresStore) Has(ctx context.Context, url string) (bool, error) {
	var one int
	err := s.db.QueryRow(ctx, "SELECT 1 FROM seen WHERE url = $1", url).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query seen url: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) Add(ctx context.Context, url string) error {
	_, err := s.db.Exec(ctx, "INSERT INTO seen (url) VALUES ($1) ON CONFLICT (url) DO NOTHING", url)
	if err != nil {
		return fmt.Errorf("failed to mark url seen: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		s.db.Close()
	}
	return nil
}
