package lesson

import (
	"context"
	"log/slog"
	"strings"
	"time"

	models "lectern/internal/domain/models/lesson"
	lessonRepo "lectern/internal/domain/repositories/lesson"
	lessonSvc "lectern/internal/domain/services/lesson"

	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

// lessonService implements the LessonService interface
type lessonService struct {
	lessonRepo   lessonRepo.LessonRepository
	versionRepo  lessonRepo.VersionRepository
	progressRepo lessonRepo.ProgressRepository
	logger       *slog.Logger
}

// NewLessonService creates a new lesson service
func NewLessonService(
	lessonRepo lessonRepo.LessonRepository,
	versionRepo lessonRepo.VersionRepository,
	progressRepo lessonRepo.ProgressRepository,
	logger *slog.Logger,
) lessonSvc.LessonService {
	return &lessonService{
		lessonRepo:   lessonRepo,
		versionRepo:  versionRepo,
		progressRepo: progressRepo,
		logger:       logger,
	}
}

// CreateLesson creates a lesson with a slug derived from its title
func (s *lessonService) CreateLesson(ctx context.Context, req *lessonSvc.CreateLessonRequest) (*models.Lesson, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateCreateLesson(req); err != nil {
		return nil, err
	}

	now := time.Now()
	l := &models.Lesson{
		SectionID: req.SectionID,
		CourseID:  req.CourseID,
		Title:     req.Title,
		Slug:      slug.Make(req.Title),
		Position:  req.Position,
		IsPreview: req.IsPreview,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.lessonRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("lesson created",
		"id", l.ID,
		"section_id", l.SectionID,
		"slug", l.Slug,
	)

	return l, nil
}

// GetLesson retrieves a lesson by ID
func (s *lessonService) GetLesson(ctx context.Context, lessonID string) (*models.Lesson, error) {
	return s.lessonRepo.GetByID(ctx, lessonID)
}

// UpdateLesson updates a lesson, re-deriving the slug when the title changes
func (s *lessonService) UpdateLesson(ctx context.Context, lessonID string, req *lessonSvc.UpdateLessonRequest) (*models.Lesson, error) {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if err := validateUpdateLesson(req); err != nil {
		return nil, err
	}

	l, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		l.Title = *req.Title
		l.Slug = slug.Make(l.Title)
	}
	if req.Position != nil {
		l.Position = *req.Position
	}
	if req.IsPreview != nil {
		l.IsPreview = *req.IsPreview
	}
	l.UpdatedAt = time.Now()

	if err := s.lessonRepo.Update(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("lesson updated", "id", l.ID)

	return l, nil
}

// DeleteLesson deletes a lesson; the repository cascades to versions, blocks and assets
func (s *lessonService) DeleteLesson(ctx context.Context, lessonID string) error {
	if err := s.lessonRepo.Delete(ctx, lessonID); err != nil {
		return err
	}

	s.logger.Info("lesson deleted", "id", lessonID)

	return nil
}

// ListSectionLessons returns the section outline with the student's overlay merged
func (s *lessonService) ListSectionLessons(ctx context.Context, sectionID, studentID string) ([]models.AugmentedLesson, error) {
	lessons, err := s.lessonRepo.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return []models.AugmentedLesson{}, nil
	}

	ids := make([]string, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}

	var (
		published []models.LessonVersion
		records   []models.ProgressRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		published, err = s.versionRepo.ListPublishedByLessons(gctx, ids)
		return err
	})
	if studentID != "" {
		g.Go(func() error {
			var err error
			records, err = s.progressRepo.ListByStudent(gctx, studentID, ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byLesson := make(map[string]models.LessonVersion, len(published))
	for _, v := range published {
		byLesson[v.LessonID] = v
	}

	return MergeProgress(lessons, records, byLesson), nil
}
