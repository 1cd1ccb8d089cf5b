package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"lectern/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Lessons  string
	Versions string
	Blocks   string
	Assets   string
	Progress string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Lessons:  fmt.Sprintf("%slessons", prefix),
		Versions: fmt.Sprintf("%slesson_versions", prefix),
		Blocks:   fmt.Sprintf("%slesson_blocks", prefix),
		Assets:   fmt.Sprintf("%slesson_assets", prefix),
		Progress: fmt.Sprintf("%slesson_progress", prefix),
	}
}

// All returns the table names in dependency order (parents first)
func (t *TableNames) All() []string {
	return []string{t.Lessons, t.Versions, t.Blocks, t.Assets, t.Progress}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// PgBouncer in transaction pooling mode (port 6543 on Supabase) does not
// support prepared statements. On that port the pool switches to
// QueryExecModeCacheDescribe, which keeps the extended protocol (JSONB
// parameters still encode) without creating prepared statements.
// An explicit default_query_exec_mode in the URL takes precedence.
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches
// the server, so each prefix gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
// Repositories call it so they join a caller's transaction automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
