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

// PostgresAssetRepository implements the AssetRepository interface
type PostgresAssetRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(config *postgres.RepositoryConfig) lessonRepo.AssetRepository {
	return &PostgresAssetRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const assetColumns = `id, version_id, type, filename, url, preview_url, file_size, created_at`

func scanAsset(row interface{ Scan(dest ...any) error }, a *models.Asset) error {
	return row.Scan(
		&a.ID,
		&a.VersionID,
		&a.Type,
		&a.Filename,
		&a.URL,
		&a.PreviewURL,
		&a.FileSize,
		&a.CreatedAt,
	)
}

// Create inserts an asset
func (r *PostgresAssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (version_id, type, filename, url, preview_url, file_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Assets)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		asset.VersionID,
		asset.Type,
		asset.Filename,
		asset.URL,
		asset.PreviewURL,
		asset.FileSize,
		asset.CreatedAt,
	).Scan(&asset.ID, &asset.CreatedAt)
	if err != nil {
		return postgres.MapWriteError(err, "create asset", "asset", "")
	}

	return nil
}

// GetByID retrieves an asset by ID
func (r *PostgresAssetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, assetColumns, r.tables.Assets)

	var a models.Asset
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanAsset(executor.QueryRow(ctx, query, id), &a); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return &a, nil
}

// ListByVersion lists a version's assets in creation order
func (r *PostgresAssetRepository) ListByVersion(ctx context.Context, versionID string) ([]models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE version_id = $1
		ORDER BY created_at ASC, id ASC
	`, assetColumns, r.tables.Assets)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		var a models.Asset
		if err := scanAsset(rows, &a); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}

	return assets, nil
}

// Delete deletes an asset
func (r *PostgresAssetRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Assets)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
