package lesson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	models "lectern/internal/domain/models/lesson"
	"lectern/internal/domain/repositories"
	lessonRepo "lectern/internal/domain/repositories/lesson"
	lessonSvc "lectern/internal/domain/services/lesson"
	"lectern/internal/layout"
)

// versionService implements the VersionService interface
type versionService struct {
	lessonRepo  lessonRepo.LessonRepository
	versionRepo lessonRepo.VersionRepository
	blockRepo   lessonRepo.BlockRepository
	assetRepo   lessonRepo.AssetRepository
	txManager   repositories.TransactionManager
	catalog     *layout.Catalog
	policy      VersionPolicy
	logger      *slog.Logger
}

// NewVersionService creates a new version service
func NewVersionService(
	lessonRepo lessonRepo.LessonRepository,
	versionRepo lessonRepo.VersionRepository,
	blockRepo lessonRepo.BlockRepository,
	assetRepo lessonRepo.AssetRepository,
	txManager repositories.TransactionManager,
	catalog *layout.Catalog,
	policy VersionPolicy,
	logger *slog.Logger,
) lessonSvc.VersionService {
	return &versionService{
		lessonRepo:  lessonRepo,
		versionRepo: versionRepo,
		blockRepo:   blockRepo,
		assetRepo:   assetRepo,
		txManager:   txManager,
		catalog:     catalog,
		policy:      policy,
		logger:      logger,
	}
}

// ListVersions lists a lesson's versions
func (s *versionService) ListVersions(ctx context.Context, lessonID string) ([]models.LessonVersion, error) {
	if _, err := s.lessonRepo.GetByID(ctx, lessonID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByLesson(ctx, lessonID)
}

// SelectVersion returns the current version for the view
func (s *versionService) SelectVersion(ctx context.Context, lessonID string, view models.ViewContext) (*models.LessonVersion, error) {
	if _, err := s.lessonRepo.GetByID(ctx, lessonID); err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return SelectVersion(lessonID, versions, view)
}

// CreateVersion creates the next draft of a lesson, optionally forked from an existing version
func (s *versionService) CreateVersion(ctx context.Context, req *lessonSvc.CreateVersionRequest) (*models.LessonVersion, error) {
	if err := validateCreateVersion(req, s.policy); err != nil {
		return nil, err
	}

	var created models.LessonVersion
	var copiedBlocks, copiedAssets int

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.lessonRepo.GetByID(txCtx, req.LessonID); err != nil {
			return err
		}
		if err := s.versionRepo.LockLesson(txCtx, req.LessonID); err != nil {
			return err
		}

		versions, err := s.versionRepo.ListByLesson(txCtx, req.LessonID)
		if err != nil {
			return err
		}

		layoutType := models.DefaultLayoutType
		var metadata models.VersionMetadata
		var source *models.LessonVersion

		if req.FromVersionID != nil {
			source, err = s.versionRepo.GetByID(txCtx, *req.FromVersionID)
			if err != nil {
				return err
			}
			if source.LessonID != req.LessonID {
				return validationError(errors.New("from_version_id belongs to another lesson"))
			}
			layoutType = source.LayoutType
			metadata = source.Metadata
		}
		if req.LayoutType != nil && *req.LayoutType != "" {
			layoutType = models.LayoutType(*req.LayoutType)
		}
		if req.Metadata != nil {
			metadata = *req.Metadata
		}

		created = NewDraft(req.LessonID, NextVersionNumber(versions), layoutType, metadata, time.Now())
		if err := s.versionRepo.Create(txCtx, &created); err != nil {
			return err
		}

		if source != nil {
			copiedBlocks, copiedAssets, err = s.copyContent(txCtx, source.ID, created.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("version created",
		"id", created.ID,
		"lesson_id", created.LessonID,
		"version_number", created.VersionNumber,
		"layout_type", created.LayoutType,
		"copied_blocks", copiedBlocks,
		"copied_assets", copiedAssets,
	)

	return &created, nil
}

// copyContent duplicates the blocks and assets of one version into another
func (s *versionService) copyContent(ctx context.Context, fromID, toID string) (int, int, error) {
	blocks, err := s.blockRepo.ListByVersion(ctx, fromID)
	if err != nil {
		return 0, 0, err
	}
	now := time.Now()
	for _, b := range blocks {
		b.ID = ""
		b.VersionID = toID
		b.CreatedAt = now
		b.UpdatedAt = now
		if err := s.blockRepo.Create(ctx, &b); err != nil {
			return 0, 0, fmt.Errorf("copy block: %w", err)
		}
	}

	assets, err := s.assetRepo.ListByVersion(ctx, fromID)
	if err != nil {
		return 0, 0, err
	}
	for _, a := range assets {
		a.ID = ""
		a.VersionID = toID
		a.CreatedAt = now
		if err := s.assetRepo.Create(ctx, &a); err != nil {
			return 0, 0, fmt.Errorf("copy asset: %w", err)
		}
	}

	return len(blocks), len(assets), nil
}

// UpdateVersion edits a draft's layout or metadata
func (s *versionService) UpdateVersion(ctx context.Context, versionID string, req *lessonSvc.UpdateVersionRequest) (*models.LessonVersion, error) {
	if err := validateUpdateVersion(req); err != nil {
		return nil, err
	}

	var updated *models.LessonVersion
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		v, err := s.versionRepo.GetByID(txCtx, versionID)
		if err != nil {
			return err
		}
		if err := CheckAction(v, models.ActionEdit); err != nil {
			return err
		}

		if req.LayoutType != nil {
			v.LayoutType = models.LayoutType(*req.LayoutType)
		}
		if req.Metadata != nil {
			v.Metadata = *req.Metadata
		}
		v.UpdatedAt = time.Now()

		if err := s.versionRepo.Update(txCtx, v); err != nil {
			return err
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.LayoutType != nil {
		blocks, err := s.blockRepo.ListByVersion(ctx, versionID)
		if err != nil {
			s.logger.Warn("failed to check blocks after layout change", "version_id", versionID, "error", err)
		} else if missing := orphanedSlotIDs(s.catalog, updated.LayoutType, blocks); len(missing) > 0 {
			s.logger.Warn("layout change orphans blocks",
				"version_id", versionID,
				"layout_type", updated.LayoutType,
				"missing_slots", missing,
			)
		}
	}

	s.logger.Info("version updated",
		"id", updated.ID,
		"lesson_id", updated.LessonID,
		"layout_type", updated.LayoutType,
	)

	return updated, nil
}

// PublishVersion publishes a draft and archives the lesson's previously published version.
// Both writes commit together or not at all.
func (s *versionService) PublishVersion(ctx context.Context, versionID string) (*models.LessonVersion, error) {
	var result *PublishResult

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		target, err := s.versionRepo.GetByID(txCtx, versionID)
		if err != nil {
			return err
		}
		if err := s.versionRepo.LockLesson(txCtx, target.LessonID); err != nil {
			return err
		}

		// Re-read under the lock so a concurrent publish is observed
		versions, err := s.versionRepo.ListByLesson(txCtx, target.LessonID)
		if err != nil {
			return err
		}

		result, err = Publish(versions, versionID, time.Now())
		if err != nil {
			return err
		}

		// Archive first so at most one published row exists after every statement
		for i := range result.Archived {
			if err := s.versionRepo.Update(txCtx, &result.Archived[i]); err != nil {
				return fmt.Errorf("archive version %s: %w", result.Archived[i].ID, err)
			}
		}
		return s.versionRepo.Update(txCtx, &result.Published)
	})
	if err != nil {
		return nil, err
	}

	for _, archived := range result.Archived {
		s.logger.Info("version archived",
			"id", archived.ID,
			"lesson_id", archived.LessonID,
			"version_number", archived.VersionNumber,
		)
	}
	s.logger.Info("version published",
		"id", result.Published.ID,
		"lesson_id", result.Published.LessonID,
		"version_number", result.Published.VersionNumber,
	)

	return &result.Published, nil
}
