package memory

import (
	"context"
	"fmt"
	"sort"

	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
	lessonRepo "lectern/internal/domain/repositories/lesson"
)

// ProgressRepository implements lessonRepo.ProgressRepository over a Store
type ProgressRepository struct {
	store *Store
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(store *Store) lessonRepo.ProgressRepository {
	return &ProgressRepository{store: store}
}

// ListByStudent returns the student's records for the given lessons in write order
func (r *ProgressRepository) ListByStudent(ctx context.Context, studentID string, lessonIDs []string) ([]models.ProgressRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rows []row[models.ProgressRecord]
	for _, id := range lessonIDs {
		if stored, ok := r.store.progress[progressKey{studentID: studentID, lessonID: id}]; ok {
			rows = append(rows, stored)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	records := make([]models.ProgressRecord, len(rows))
	for i, stored := range rows {
		records[i] = stored.value
	}
	return records, nil
}

// Upsert creates or replaces the record for (StudentID, LessonID)
func (r *ProgressRepository) Upsert(ctx context.Context, record *models.ProgressRecord) error {
	defer r.store.beginWrite(ctx)()

	if _, ok := r.store.lessons[record.LessonID]; !ok {
		return fmt.Errorf("lesson %s: %w", record.LessonID, domain.ErrNotFound)
	}

	key := progressKey{studentID: record.StudentID, lessonID: record.LessonID}
	seq := r.store.next()
	if existing, ok := r.store.progress[key]; ok {
		seq = existing.seq
	}
	r.store.progress[key] = row[models.ProgressRecord]{seq: seq, value: *record}
	return nil
}
