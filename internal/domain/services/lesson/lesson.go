package lesson

import (
	"context"

	models "lectern/internal/domain/models/lesson"
)

// LessonService handles lesson identity and the student-facing outline
type LessonService interface {
	// CreateLesson creates a lesson in a section. The slug is derived from the title.
	CreateLesson(ctx context.Context, req *CreateLessonRequest) (*models.Lesson, error)

	// GetLesson retrieves a lesson by ID
	GetLesson(ctx context.Context, lessonID string) (*models.Lesson, error)

	// UpdateLesson updates title, position or preview flag
	UpdateLesson(ctx context.Context, lessonID string, req *UpdateLessonRequest) (*models.Lesson, error)

	// DeleteLesson deletes a lesson and everything it owns
	DeleteLesson(ctx context.Context, lessonID string) error

	// ListSectionLessons returns the section's lessons with the student's
	// progress and preview eligibility merged, in section order.
	// An empty studentID yields default overlays (anonymous visitor).
	ListSectionLessons(ctx context.Context, sectionID, studentID string) ([]models.AugmentedLesson, error)
}

// CreateLessonRequest represents a lesson creation request
type CreateLessonRequest struct {
	SectionID string `json:"-"` // Set by handler from the URL
	CourseID  string `json:"course_id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
	IsPreview bool   `json:"is_preview"`
}

// UpdateLessonRequest represents a lesson update request
type UpdateLessonRequest struct {
	Title     *string `json:"title,omitempty"`
	Position  *int    `json:"position,omitempty"`
	IsPreview *bool   `json:"is_preview,omitempty"`
}
