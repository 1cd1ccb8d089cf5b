package lesson

import (
	"context"
	"fmt"

	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
	lessonRepo "lectern/internal/domain/repositories/lesson"
	"lectern/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBlockRepository implements the BlockRepository interface
type PostgresBlockRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(config *postgres.RepositoryConfig) lessonRepo.BlockRepository {
	return &PostgresBlockRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const blockColumns = `id, version_id, type, slot_id, order_index, content, settings, created_at, updated_at`

func scanBlock(row interface{ Scan(dest ...any) error }, b *models.Block) error {
	return row.Scan(
		&b.ID,
		&b.VersionID,
		&b.Type,
		&b.SlotID,
		&b.OrderIndex,
		&b.Content,  // JSONB -> map
		&b.Settings, // JSONB -> map
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

// Create inserts a block
func (r *PostgresBlockRepository) Create(ctx context.Context, block *models.Block) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (version_id, type, slot_id, order_index, content, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Blocks)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		block.VersionID,
		block.Type,
		block.SlotID,
		block.OrderIndex,
		block.Content,
		block.Settings,
		block.CreatedAt,
		block.UpdatedAt,
	).Scan(&block.ID, &block.CreatedAt, &block.UpdatedAt)
	if err != nil {
		return postgres.MapWriteError(err, "create block", "block", "")
	}

	return nil
}

// GetByID retrieves a block by ID
func (r *PostgresBlockRepository) GetByID(ctx context.Context, id string) (*models.Block, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, blockColumns, r.tables.Blocks)

	var b models.Block
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanBlock(executor.QueryRow(ctx, query, id), &b); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get block: %w", err)
	}

	return &b, nil
}

// ListByVersion lists a version's blocks in creation order
func (r *PostgresBlockRepository) ListByVersion(ctx context.Context, versionID string) ([]models.Block, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE version_id = $1
		ORDER BY created_at ASC, id ASC
	`, blockColumns, r.tables.Blocks)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	blocks := []models.Block{}
	for rows.Next() {
		var b models.Block
		if err := scanBlock(rows, &b); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}

	return blocks, nil
}

// Update persists slot, order, content and settings
func (r *PostgresBlockRepository) Update(ctx context.Context, block *models.Block) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET slot_id = $1, order_index = $2, content = $3, settings = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Blocks)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		block.SlotID,
		block.OrderIndex,
		block.Content,
		block.Settings,
		block.UpdatedAt,
		block.ID,
	)
	if err != nil {
		return postgres.MapWriteError(err, "update block", "block", block.ID)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("block %s: %w", block.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a block
func (r *PostgresBlockRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Blocks)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
