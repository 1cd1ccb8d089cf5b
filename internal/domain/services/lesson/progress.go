package lesson

import (
	"context"

	models "lectern/internal/domain/models/lesson"
)

// ProgressService records student progress through the progress collaborator
type ProgressService interface {
	// RecordProgress stores the student's progress on a lesson
	RecordProgress(ctx context.Context, req *RecordProgressRequest) (*models.ProgressRecord, error)
}

// RecordProgressRequest represents a progress update
type RecordProgressRequest struct {
	StudentID   string `json:"-"` // Set by handler from auth context
	LessonID    string `json:"-"` // Set by handler from the URL
	Progress    int    `json:"progress"`
	IsCompleted bool   `json:"is_completed"`
}
