// Package storage opens the configured persistence backend and returns its repositories.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"lectern/internal/config"
	"lectern/internal/database"
	"lectern/internal/domain/repositories"
	lessonRepo "lectern/internal/domain/repositories/lesson"
	"lectern/internal/repository/memory"
	"lectern/internal/repository/postgres"
	postgresLesson "lectern/internal/repository/postgres/lesson"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds every repository of one backend
type Repositories struct {
	Lessons   lessonRepo.LessonRepository
	Versions  lessonRepo.VersionRepository
	Blocks    lessonRepo.BlockRepository
	Assets    lessonRepo.AssetRepository
	Progress  lessonRepo.ProgressRepository
	TxManager repositories.TransactionManager

	close func()
}

// Close releases the backend's resources
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// NewMemory returns repositories over a fresh in-process store
func NewMemory() *Repositories {
	store := memory.NewStore()
	return &Repositories{
		Lessons:   memory.NewLessonRepository(store),
		Versions:  memory.NewVersionRepository(store),
		Blocks:    memory.NewBlockRepository(store),
		Assets:    memory.NewAssetRepository(store),
		Progress:  memory.NewProgressRepository(store),
		TxManager: memory.NewTransactionManager(store),
	}
}

// NewPostgres returns repositories over an existing pool. The caller owns the pool.
func NewPostgres(pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger) *Repositories {
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &Repositories{
		Lessons:   postgresLesson.NewLessonRepository(repoConfig),
		Versions:  postgresLesson.NewVersionRepository(repoConfig),
		Blocks:    postgresLesson.NewBlockRepository(repoConfig),
		Assets:    postgresLesson.NewAssetRepository(repoConfig),
		Progress:  postgresLesson.NewProgressRepository(repoConfig),
		TxManager: postgres.NewTransactionManager(pool, logger),
	}
}

// Open connects to the backend named by cfg.Storage. The postgres backend
// ensures the schema exists before returning.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Repositories, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return NewMemory(), nil

	case config.StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for %s storage", config.StoragePostgres)
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := database.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}

		logger.Info("database connected",
			"table_prefix", cfg.TablePrefix,
			"max_conns", pool.Config().MaxConns,
		)

		repos := NewPostgres(pool, tables, logger)
		repos.close = pool.Close
		return repos, nil

	default:
		return nil, fmt.Errorf("unknown STORAGE %q (supported: %s, %s)", cfg.Storage, config.StoragePostgres, config.StorageMemory)
	}
}
