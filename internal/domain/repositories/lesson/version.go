package lesson

import (
	"context"

	models "lectern/internal/domain/models/lesson"
)

// VersionRepository defines data access operations for lesson versions
type VersionRepository interface {
	// Create inserts a version. VersionNumber must already be allocated.
	Create(ctx context.Context, version *models.LessonVersion) error

	// GetByID retrieves a version by ID
	GetByID(ctx context.Context, id string) (*models.LessonVersion, error)

	// ListByLesson lists a lesson's versions ordered by version_number ascending
	ListByLesson(ctx context.Context, lessonID string) ([]models.LessonVersion, error)

	// ListPublishedByLessons returns the published version of each given lesson that has one
	ListPublishedByLessons(ctx context.Context, lessonIDs []string) ([]models.LessonVersion, error)

	// Update persists status, layout, metadata and timestamps
	Update(ctx context.Context, version *models.LessonVersion) error

	// LockLesson serializes version allocation and publishing for one lesson.
	// Must be called inside a transaction; the lock is released on commit or rollback.
	LockLesson(ctx context.Context, lessonID string) error
}
