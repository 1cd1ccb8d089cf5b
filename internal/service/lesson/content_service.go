package lesson

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	models "lectern/internal/domain/models/lesson"
	"lectern/internal/domain/repositories"
	lessonRepo "lectern/internal/domain/repositories/lesson"
	lessonSvc "lectern/internal/domain/services/lesson"
	"lectern/internal/layout"

	"golang.org/x/sync/errgroup"
)

// contentService implements the ContentService interface
type contentService struct {
	lessonRepo   lessonRepo.LessonRepository
	versionRepo  lessonRepo.VersionRepository
	blockRepo    lessonRepo.BlockRepository
	assetRepo    lessonRepo.AssetRepository
	progressRepo lessonRepo.ProgressRepository
	txManager    repositories.TransactionManager
	catalog      *layout.Catalog
	logger       *slog.Logger
}

// NewContentService creates a new content service
func NewContentService(
	lessonRepo lessonRepo.LessonRepository,
	versionRepo lessonRepo.VersionRepository,
	blockRepo lessonRepo.BlockRepository,
	assetRepo lessonRepo.AssetRepository,
	progressRepo lessonRepo.ProgressRepository,
	txManager repositories.TransactionManager,
	catalog *layout.Catalog,
	logger *slog.Logger,
) lessonSvc.ContentService {
	return &contentService{
		lessonRepo:   lessonRepo,
		versionRepo:  versionRepo,
		blockRepo:    blockRepo,
		assetRepo:    assetRepo,
		progressRepo: progressRepo,
		txManager:    txManager,
		catalog:      catalog,
		logger:       logger,
	}
}

// editableVersion loads a version and ensures it can still be edited
func (s *contentService) editableVersion(ctx context.Context, versionID string) (*models.LessonVersion, error) {
	v, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if err := CheckAction(v, models.ActionEdit); err != nil {
		return nil, err
	}
	return v, nil
}

// requireSlot rejects slot ids that the version's layout does not define
func (s *contentService) requireSlot(v *models.LessonVersion, slotID string) error {
	resolved := s.catalog.Resolve(string(v.LayoutType))
	if !resolved.HasSlot(slotID) {
		return validationError(fmt.Errorf("slot %q is not part of layout %q (slots: %v)",
			slotID, resolved.NodeType, resolved.SlotIDs()))
	}
	return nil
}

// slotBlocks returns the blocks of one slot in render order, excluding skipID
func slotBlocks(blocks []models.Block, slotID, skipID string) []models.Block {
	var out []models.Block
	for _, b := range blocks {
		if b.SlotID == slotID && b.ID != skipID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// insertAt returns the position a block lands at: the requested index clamped
// to the slot, or the end when none was requested
func insertAt(requested *int, length int) int {
	if requested == nil || *requested > length {
		return length
	}
	if *requested < 0 {
		return 0
	}
	return *requested
}

// place persists blocks at order_index 0..n-1. Blocks whose index changes are
// parked at negative indexes first, so a unique (version, slot, order_index)
// constraint holds after every write. Blocks without an ID are not persisted.
func (s *contentService) place(ctx context.Context, blocks []models.Block, slotID string, now time.Time) error {
	var changed []int
	for i := range blocks {
		if blocks[i].OrderIndex != i || blocks[i].SlotID != slotID {
			changed = append(changed, i)
		}
	}

	for _, i := range changed {
		blocks[i].SlotID = slotID
		blocks[i].OrderIndex = -(i + 1)
		blocks[i].UpdatedAt = now
		if blocks[i].ID == "" {
			continue
		}
		if err := s.blockRepo.Update(ctx, &blocks[i]); err != nil {
			return fmt.Errorf("park block %s: %w", blocks[i].ID, err)
		}
	}
	for _, i := range changed {
		blocks[i].OrderIndex = i
		if blocks[i].ID == "" {
			continue
		}
		if err := s.blockRepo.Update(ctx, &blocks[i]); err != nil {
			return fmt.Errorf("place block %s: %w", blocks[i].ID, err)
		}
	}
	return nil
}

// spliceBlock returns blocks with b inserted at pos
func spliceBlock(blocks []models.Block, b models.Block, pos int) []models.Block {
	out := make([]models.Block, 0, len(blocks)+1)
	out = append(out, blocks[:pos]...)
	out = append(out, b)
	return append(out, blocks[pos:]...)
}

// AddBlock inserts a block into a draft's slot, shifting later blocks down
func (s *contentService) AddBlock(ctx context.Context, versionID string, req *lessonSvc.AddBlockRequest) (*models.Block, error) {
	if err := validateAddBlock(req); err != nil {
		return nil, err
	}

	var created models.Block
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		v, err := s.editableVersion(txCtx, versionID)
		if err != nil {
			return err
		}
		if err := s.requireSlot(v, req.SlotID); err != nil {
			return err
		}

		existing, err := s.blockRepo.ListByVersion(txCtx, versionID)
		if err != nil {
			return err
		}
		siblings := slotBlocks(existing, req.SlotID, "")
		pos := insertAt(req.OrderIndex, len(siblings))

		now := time.Now()
		created = models.Block{
			VersionID: versionID,
			Type:      models.BlockType(req.Type),
			SlotID:    req.SlotID,
			Content:   req.Content,
			Settings:  req.Settings,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if created.Content == nil {
			created.Content = map[string]interface{}{}
		}
		if created.Settings == nil {
			created.Settings = map[string]interface{}{}
		}

		placed := spliceBlock(siblings, created, pos)
		if err := s.place(txCtx, placed, req.SlotID, now); err != nil {
			return err
		}
		created.OrderIndex = pos
		return s.blockRepo.Create(txCtx, &created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("block added",
		"id", created.ID,
		"version_id", versionID,
		"type", created.Type,
		"slot_id", created.SlotID,
		"order_index", created.OrderIndex,
	)

	return &created, nil
}

// UpdateBlock edits a draft's block. Moving a block to another slot or index
// renumbers the affected slots so order indexes stay unique.
func (s *contentService) UpdateBlock(ctx context.Context, blockID string, req *lessonSvc.UpdateBlockRequest) (*models.Block, error) {
	if err := validateUpdateBlock(req); err != nil {
		return nil, err
	}

	var updated models.Block
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		b, err := s.blockRepo.GetByID(txCtx, blockID)
		if err != nil {
			return err
		}
		v, err := s.editableVersion(txCtx, b.VersionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if req.Content != nil {
			b.Content = req.Content
		}
		if req.Settings != nil {
			b.Settings = req.Settings
		}
		b.UpdatedAt = now

		fromSlot := b.SlotID
		toSlot := b.SlotID
		if req.SlotID != nil {
			toSlot = *req.SlotID
		}
		moving := toSlot != fromSlot || req.OrderIndex != nil
		if !moving {
			updated = *b
			return s.blockRepo.Update(txCtx, b)
		}

		if err := s.requireSlot(v, toSlot); err != nil {
			return err
		}
		all, err := s.blockRepo.ListByVersion(txCtx, b.VersionID)
		if err != nil {
			return err
		}

		target := slotBlocks(all, toSlot, b.ID)
		pos := insertAt(req.OrderIndex, len(target))
		placed := spliceBlock(target, *b, pos)
		// Force the moved block through place so its edits are persisted
		placed[pos].OrderIndex = -1
		if err := s.place(txCtx, placed, toSlot, now); err != nil {
			return err
		}
		updated = placed[pos]

		// Close the gap left in the source slot once the block has left it
		if toSlot != fromSlot {
			return s.place(txCtx, slotBlocks(all, fromSlot, b.ID), fromSlot, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("block updated",
		"id", updated.ID,
		"version_id", updated.VersionID,
		"slot_id", updated.SlotID,
		"order_index", updated.OrderIndex,
	)

	return &updated, nil
}

// DeleteBlock removes a block from a draft
func (s *contentService) DeleteBlock(ctx context.Context, blockID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		b, err := s.blockRepo.GetByID(txCtx, blockID)
		if err != nil {
			return err
		}
		if _, err := s.editableVersion(txCtx, b.VersionID); err != nil {
			return err
		}
		return s.blockRepo.Delete(txCtx, blockID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("block deleted", "id", blockID)

	return nil
}

// ReorderBlocks sets the order of a slot's blocks to the given sequence
func (s *contentService) ReorderBlocks(ctx context.Context, versionID, slotID string, blockIDs []string) ([]models.Block, error) {
	var reordered []models.Block

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		v, err := s.editableVersion(txCtx, versionID)
		if err != nil {
			return err
		}
		if err := s.requireSlot(v, slotID); err != nil {
			return err
		}

		all, err := s.blockRepo.ListByVersion(txCtx, versionID)
		if err != nil {
			return err
		}
		current := slotBlocks(all, slotID, "")

		if len(blockIDs) != len(current) {
			return validationError(fmt.Errorf("expected %d block ids for slot %q, got %d",
				len(current), slotID, len(blockIDs)))
		}
		byID := make(map[string]models.Block, len(current))
		for _, b := range current {
			byID[b.ID] = b
		}

		now := time.Now()
		reordered = make([]models.Block, len(blockIDs))
		for i, id := range blockIDs {
			b, ok := byID[id]
			if !ok {
				return validationError(fmt.Errorf("block %s is not in slot %q or is listed twice", id, slotID))
			}
			delete(byID, id)
			reordered[i] = b
		}

		return s.place(txCtx, reordered, slotID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("blocks reordered",
		"version_id", versionID,
		"slot_id", slotID,
		"count", len(reordered),
	)

	return reordered, nil
}

// AttachAsset adds an asset to a draft
func (s *contentService) AttachAsset(ctx context.Context, versionID string, req *lessonSvc.AttachAssetRequest) (*models.Asset, error) {
	if err := validateAttachAsset(req); err != nil {
		return nil, err
	}

	var created models.Asset
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.editableVersion(txCtx, versionID); err != nil {
			return err
		}
		created = models.Asset{
			VersionID:  versionID,
			Type:       models.AssetType(req.Type),
			Filename:   req.Filename,
			URL:        req.URL,
			PreviewURL: req.PreviewURL,
			FileSize:   req.FileSize,
			CreatedAt:  time.Now(),
		}
		return s.assetRepo.Create(txCtx, &created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("asset attached",
		"id", created.ID,
		"version_id", versionID,
		"type", created.Type,
		"file_size", created.FileSize,
	)

	return &created, nil
}

// DetachAsset removes an asset from a draft
func (s *contentService) DetachAsset(ctx context.Context, assetID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		a, err := s.assetRepo.GetByID(txCtx, assetID)
		if err != nil {
			return err
		}
		if _, err := s.editableVersion(txCtx, a.VersionID); err != nil {
			return err
		}
		return s.assetRepo.Delete(txCtx, assetID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("asset detached", "id", assetID)

	return nil
}

// currentVersion loads a lesson and selects its version for the view
func (s *contentService) currentVersion(ctx context.Context, lessonID string, view models.ViewContext) (*models.Lesson, *models.LessonVersion, error) {
	l, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, nil, err
	}
	versions, err := s.versionRepo.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, nil, err
	}
	v, err := SelectVersion(lessonID, versions, view)
	if err != nil {
		return nil, nil, err
	}
	return l, v, nil
}

// GetDocument assembles the lesson's current version for the view
func (s *contentService) GetDocument(ctx context.Context, lessonID string, view models.ViewContext) (*models.AssembledDocument, error) {
	_, v, err := s.currentVersion(ctx, lessonID, view)
	if err != nil {
		return nil, err
	}

	var (
		blocks []models.Block
		assets []models.Asset
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		blocks, err = s.blockRepo.ListByVersion(gctx, v.ID)
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = s.assetRepo.ListByVersion(gctx, v.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc, diagnostics := Assemble(s.catalog, *v, blocks, assets)
	s.logDiagnostics(v, diagnostics)

	return &models.AssembledDocument{Document: doc, Diagnostics: diagnostics}, nil
}

// GetStudentDocument assembles the published version and overlays the student's progress
func (s *contentService) GetStudentDocument(ctx context.Context, lessonID, studentID string) (*models.AugmentedDocument, error) {
	l, v, err := s.currentVersion(ctx, lessonID, models.ViewStudent)
	if err != nil {
		return nil, err
	}

	var (
		blocks  []models.Block
		assets  []models.Asset
		records []models.ProgressRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		blocks, err = s.blockRepo.ListByVersion(gctx, v.ID)
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = s.assetRepo.ListByVersion(gctx, v.ID)
		return err
	})
	if studentID != "" {
		g.Go(func() error {
			var err error
			records, err = s.progressRepo.ListByStudent(gctx, studentID, []string{lessonID})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc, diagnostics := Assemble(s.catalog, *v, blocks, assets)
	s.logDiagnostics(v, diagnostics)

	var record *models.ProgressRecord
	if len(records) > 0 {
		record = &records[0]
	}

	augmented := MergeDocumentProgress(doc, *l, record)
	return &augmented, nil
}

func (s *contentService) logDiagnostics(v *models.LessonVersion, d models.Diagnostics) {
	if !d.HasWarnings() {
		return
	}
	ids := make([]string, len(d.OrphanedBlocks))
	for i, b := range d.OrphanedBlocks {
		ids[i] = b.ID
	}
	s.logger.Warn("orphaned blocks",
		"version_id", v.ID,
		"layout_type", v.LayoutType,
		"block_ids", ids,
	)
}
