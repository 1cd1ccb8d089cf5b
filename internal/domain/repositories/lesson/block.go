package lesson

import (
	"context"

	models "lectern/internal/domain/models/lesson"
)

// BlockRepository defines data access operations for content blocks
type BlockRepository interface {
	// Create inserts a block and fills in its ID and timestamps
	Create(ctx context.Context, block *models.Block) error

	// GetByID retrieves a block by ID
	GetByID(ctx context.Context, id string) (*models.Block, error)

	// ListByVersion lists a version's blocks in creation order
	ListByVersion(ctx context.Context, versionID string) ([]models.Block, error)

	// Update persists slot, order, content and settings
	Update(ctx context.Context, block *models.Block) error

	// Delete deletes a block
	Delete(ctx context.Context, id string) error
}

// AssetRepository defines data access operations for version assets
type AssetRepository interface {
	// Create inserts an asset and fills in its ID and timestamp
	Create(ctx context.Context, asset *models.Asset) error

	// GetByID retrieves an asset by ID
	GetByID(ctx context.Context, id string) (*models.Asset, error)

	// ListByVersion lists a version's assets in creation order
	ListByVersion(ctx context.Context, versionID string) ([]models.Asset, error)

	// Delete deletes an asset
	Delete(ctx context.Context, id string) error
}
