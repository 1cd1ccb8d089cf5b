package lesson

import (
	"context"

	models "lectern/internal/domain/models/lesson"
)

// ProgressRepository is the progress collaborator: it stores per-student
// completion data that is merged onto lessons at read time
type ProgressRepository interface {
	// ListByStudent returns the student's records for the given lessons.
	// Lessons without a record are simply absent.
	ListByStudent(ctx context.Context, studentID string, lessonIDs []string) ([]models.ProgressRecord, error)

	// Upsert creates or replaces the record for (StudentID, LessonID)
	Upsert(ctx context.Context, record *models.ProgressRecord) error
}
