package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/config"
	"github.com/Freeeeeet/slot_scheduler/internal/repository"
	"github.com/Freeeeeet/slot_scheduler/internal/repository/memstore"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OpenPool открывает пул соединений и проверяет доступность базы
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// OpenStore выбирает хранилище по конфигу. Для postgres применяет миграции.
// Возвращаемая функция освобождает ресурсы хранилища
func OpenStore(ctx context.Context, cfg *config.Config, clock timeutil.Clock, logger *zap.Logger) (repository.Store, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memstore.New(clock), func() {}, nil
	}

	pool, err := OpenPool(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}

	migrator, err := NewMigrator(pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("✅ Connected to database")
	return repository.NewPostgresStore(pool), pool.Close, nil
}
