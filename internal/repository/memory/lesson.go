package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
	lessonRepo "lectern/internal/domain/repositories/lesson"

	"github.com/google/uuid"
)

// LessonRepository implements lessonRepo.LessonRepository over a Store
type LessonRepository struct {
	store *Store
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(store *Store) lessonRepo.LessonRepository {
	return &LessonRepository{store: store}
}

// Create creates a new lesson
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	defer r.store.beginWrite(ctx)()

	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	if _, exists := r.store.lessons[lesson.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("lesson %s already exists", lesson.ID),
			ResourceType: "lesson",
			ResourceID:   lesson.ID,
		}
	}
	stampCreated(&lesson.CreatedAt, &lesson.UpdatedAt)

	r.store.lessons[lesson.ID] = row[models.Lesson]{seq: r.store.next(), value: *lesson}
	return nil
}

// GetByID retrieves a lesson by ID
func (r *LessonRepository) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored, ok := r.store.lessons[id]
	if !ok {
		return nil, fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
	}
	l := stored.value
	return &l, nil
}

// ListBySection lists a section's lessons by position, then creation order
func (r *LessonRepository) ListBySection(ctx context.Context, sectionID string) ([]models.Lesson, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var rows []row[models.Lesson]
	for _, stored := range r.store.lessons {
		if stored.value.SectionID == sectionID {
			rows = append(rows, stored)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].value.Position != rows[j].value.Position {
			return rows[i].value.Position < rows[j].value.Position
		}
		return rows[i].seq < rows[j].seq
	})

	lessons := make([]models.Lesson, len(rows))
	for i, stored := range rows {
		lessons[i] = stored.value
	}
	return lessons, nil
}

// Update updates title, slug, position and preview flag
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	defer r.store.beginWrite(ctx)()

	stored, ok := r.store.lessons[lesson.ID]
	if !ok {
		return fmt.Errorf("lesson %s: %w", lesson.ID, domain.ErrNotFound)
	}
	stored.value.Title = lesson.Title
	stored.value.Slug = lesson.Slug
	stored.value.Position = lesson.Position
	stored.value.IsPreview = lesson.IsPreview
	stored.value.UpdatedAt = lesson.UpdatedAt
	r.store.lessons[lesson.ID] = stored
	return nil
}

// Delete deletes a lesson along with its versions, their blocks and assets, and its progress
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	defer r.store.beginWrite(ctx)()

	if _, ok := r.store.lessons[id]; !ok {
		return fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.lessons, id)

	for vid, v := range r.store.versions {
		if v.value.LessonID != id {
			continue
		}
		delete(r.store.versions, vid)
		for bid, b := range r.store.blocks {
			if b.value.VersionID == vid {
				delete(r.store.blocks, bid)
			}
		}
		for aid, a := range r.store.assets {
			if a.value.VersionID == vid {
				delete(r.store.assets, aid)
			}
		}
	}
	for key := range r.store.progress {
		if key.lessonID == id {
			delete(r.store.progress, key)
		}
	}
	return nil
}

// stampCreated fills zero creation timestamps
func stampCreated(createdAt, updatedAt *time.Time) {
	if createdAt.IsZero() {
		*createdAt = time.Now()
	}
	if updatedAt != nil && updatedAt.IsZero() {
		*updatedAt = *createdAt
	}
}
