package builder

import (
	"context"
	"fmt"

	"github.com/driftlab/research-router/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"go.uber.org/zap"
)

func setupDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.StoreCfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.StoreCfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.StoreCfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.StoreCfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.StoreCfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.StoreCfg.DBHealthCheckPeriod

	// Register the vector type on every new connection so embeddings scan
	// directly into pgvector.Vector values
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Database connection established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
	)

	return pool, nil
}
