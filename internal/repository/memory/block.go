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

// BlockRepository implements lessonRepo.BlockRepository over a Store
type BlockRepository struct {
	store *Store
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(store *Store) lessonRepo.BlockRepository {
	return &BlockRepository{store: store}
}

// checkSlotOrder enforces unique (version_id, slot_id, order_index). Caller holds mu.
func (r *BlockRepository) checkSlotOrder(b *models.Block) error {
	for id, stored := range r.store.blocks {
		other := stored.value
		if id != b.ID && other.VersionID == b.VersionID && other.SlotID == b.SlotID && other.OrderIndex == b.OrderIndex {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("slot %q already has a block at order_index %d", b.SlotID, b.OrderIndex),
				ResourceType: "block",
				ResourceID:   id,
			}
		}
	}
	return nil
}

// Create inserts a block
func (r *BlockRepository) Create(ctx context.Context, block *models.Block) error {
	defer r.store.beginWrite(ctx)()

	if _, ok := r.store.versions[block.VersionID]; !ok {
		return fmt.Errorf("version %s: %w", block.VersionID, domain.ErrNotFound)
	}
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	if err := r.checkSlotOrder(block); err != nil {
		return err
	}
	stampCreated(&block.CreatedAt, &block.UpdatedAt)

	r.store.blocks[block.ID] = row[models.Block]{seq: r.store.next(), value: *block}
	return nil
}

// GetByID retrieves a block by ID
func (r *BlockRepository) GetByID(ctx context.Context, id string) (*models.Block, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored, ok := r.store.blocks[id]
	if !ok {
		return nil, fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
	}
	b := stored.value
	return &b, nil
}

// ListByVersion lists a version's blocks in creation order
func (r *BlockRepository) ListByVersion(ctx context.Context, versionID string) ([]models.Block, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rows []row[models.Block]
	for _, stored := range r.store.blocks {
		if stored.value.VersionID == versionID {
			rows = append(rows, stored)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	blocks := make([]models.Block, len(rows))
	for i, stored := range rows {
		blocks[i] = stored.value
	}
	return blocks, nil
}

// Update persists slot, order, content and settings
func (r *BlockRepository) Update(ctx context.Context, block *models.Block) error {
	defer r.store.beginWrite(ctx)()

	stored, ok := r.store.blocks[block.ID]
	if !ok {
		return fmt.Errorf("block %s: %w", block.ID, domain.ErrNotFound)
	}

	next := stored.value
	next.SlotID = block.SlotID
	next.OrderIndex = block.OrderIndex
	next.Content = block.Content
	next.Settings = block.Settings
	next.UpdatedAt = block.UpdatedAt
	if err := r.checkSlotOrder(&next); err != nil {
		return err
	}

	stored.value = next
	r.store.blocks[block.ID] = stored
	return nil
}

// Delete deletes a block
func (r *BlockRepository) Delete(ctx context.Context, id string) error {
	defer r.store.beginWrite(ctx)()

	if _, ok := r.store.blocks[id]; !ok {
		return fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.blocks, id)
	return nil
}
