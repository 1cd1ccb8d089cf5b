package lesson

import (
	"context"

	models "lectern/internal/domain/models/lesson"
)

// LessonRepository defines data access operations for lessons
type LessonRepository interface {
	// Create creates a new lesson and fills in its ID and timestamps
	Create(ctx context.Context, lesson *models.Lesson) error

	// GetByID retrieves a lesson by ID
	GetByID(ctx context.Context, id string) (*models.Lesson, error)

	// ListBySection lists a section's lessons ordered by position, then creation time
	ListBySection(ctx context.Context, sectionID string) ([]models.Lesson, error)

	// Update updates title, slug, position and preview flag
	Update(ctx context.Context, lesson *models.Lesson) error

	// Delete deletes a lesson together with its versions, blocks and assets
	Delete(ctx context.Context, id string) error
}
