package memory

import (
	"context"
	"fmt"
	"sort"

	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
	lessonRepo "lectern/internal/domain/repositories/lesson"

	"github.com/google/uuid"
)

// AssetRepository implements lessonRepo.AssetRepository over a Store
type AssetRepository struct {
	store *Store
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(store *Store) lessonRepo.AssetRepository {
	return &AssetRepository{store: store}
}

// Create inserts an asset
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	defer r.store.beginWrite(ctx)()

	if _, ok := r.store.versions[asset.VersionID]; !ok {
		return fmt.Errorf("version %s: %w", asset.VersionID, domain.ErrNotFound)
	}
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	stampCreated(&asset.CreatedAt, nil)

	r.store.assets[asset.ID] = row[models.Asset]{seq: r.store.next(), value: *asset}
	return nil
}

// GetByID retrieves an asset by ID
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored, ok := r.store.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	a := stored.value
	return &a, nil
}

// ListByVersion lists a version's assets in creation order
func (r *AssetRepository) ListByVersion(ctx context.Context, versionID string) ([]models.Asset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rows []row[models.Asset]
	for _, stored := range r.store.assets {
		if stored.value.VersionID == versionID {
			rows = append(rows, stored)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	assets := make([]models.Asset, len(rows))
	for i, stored := range rows {
		assets[i] = stored.value
	}
	return assets, nil
}

// Delete deletes an asset
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	defer r.store.beginWrite(ctx)()

	if _, ok := r.store.assets[id]; !ok {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.assets, id)
	return nil
}
