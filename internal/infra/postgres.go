package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"finrag-orchestrator/internal/infra/config"
)

// PoolConfig holds tunable parameters for the PostgreSQL connection pool.
// Zero values fall back to defaults suited to a single-service deployment.
type PoolConfig struct {
	MaxConns int
	MinConns int
}

// NewPostgresDB opens a pgx pool against the database described by cfg and
// registers pgvector types on every connection, so vector columns scan
// directly into pgvector.Vector.
func NewPostgresDB(ctx context.Context, cfg *config.Config, opts ...PoolConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	maxConns, minConns := 10, 2
	if len(opts) > 0 {
		if opts[0].MaxConns > 0 {
			maxConns = opts[0].MaxConns
		}
		if opts[0].MinConns > 0 {
			minConns = opts[0].MinConns
		}
	}
	poolCfg.MaxConns = int32(maxConns)
	poolCfg.MinConns = int32(minConns)
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	return pool, nil
}
