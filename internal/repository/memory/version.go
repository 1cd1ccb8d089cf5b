package memory

import (
	"context"
	"fmt"
	"sort"

	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
	lessonRepo "lectern/internal/domain/repositories/lesson"

	"github.com/google/uuid"
)

// VersionRepository implements lessonRepo.VersionRepository over a Store
type VersionRepository struct {
	store *Store
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(store *Store) lessonRepo.VersionRepository {
	return &VersionRepository{store: store}
}

// checkUnique enforces unique (lesson_id, version_number) and at most one
// published version per lesson. Caller holds mu.
func (r *VersionRepository) checkUnique(v *models.LessonVersion) error {
	for id, stored := range r.store.versions {
		other := stored.value
		if id == v.ID || other.LessonID != v.LessonID {
			continue
		}
		if other.VersionNumber == v.VersionNumber {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version %d of lesson %s already exists", v.VersionNumber, v.LessonID),
				ResourceType: "lesson_version",
				ResourceID:   id,
			}
		}
		if v.Status == models.StatusPublished && other.Status == models.StatusPublished {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("lesson %s already has a published version", v.LessonID),
				ResourceType: "lesson_version",
				ResourceID:   id,
			}
		}
	}
	return nil
}

// Create inserts a version
func (r *VersionRepository) Create(ctx context.Context, version *models.LessonVersion) error {
	defer r.store.beginWrite(ctx)()

	if _, ok := r.store.lessons[version.LessonID]; !ok {
		return fmt.Errorf("lesson %s: %w", version.LessonID, domain.ErrNotFound)
	}
	if version.ID == "" {
		version.ID = uuid.NewString()
	}
	if err := r.checkUnique(version); err != nil {
		return err
	}
	stampCreated(&version.CreatedAt, &version.UpdatedAt)

	r.store.versions[version.ID] = row[models.LessonVersion]{seq: r.store.next(), value: *version}
	return nil
}

// GetByID retrieves a version by ID
func (r *VersionRepository) GetByID(ctx context.Context, id string) (*models.LessonVersion, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored, ok := r.store.versions[id]
	if !ok {
		return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}
	v := stored.value
	return &v, nil
}

// ListByLesson lists a lesson's versions by version number
func (r *VersionRepository) ListByLesson(ctx context.Context, lessonID string) ([]models.LessonVersion, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	versions := []models.LessonVersion{}
	for _, stored := range r.store.versions {
		if stored.value.LessonID == lessonID {
			versions = append(versions, stored.value)
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].VersionNumber < versions[j].VersionNumber
	})
	return versions, nil
}

// ListPublishedByLessons returns the published version of each given lesson that has one
func (r *VersionRepository) ListPublishedByLessons(ctx context.Context, lessonIDs []string) ([]models.LessonVersion, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[string]bool, len(lessonIDs))
	for _, id := range lessonIDs {
		wanted[id] = true
	}

	versions := []models.LessonVersion{}
	for _, stored := range r.store.versions {
		if wanted[stored.value.LessonID] && stored.value.Status == models.StatusPublished {
			versions = append(versions, stored.value)
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].LessonID < versions[j].LessonID
	})
	return versions, nil
}

// Update persists status, layout, metadata and timestamps
func (r *VersionRepository) Update(ctx context.Context, version *models.LessonVersion) error {
	defer r.store.beginWrite(ctx)()

	stored, ok := r.store.versions[version.ID]
	if !ok {
		return fmt.Errorf("version %s: %w", version.ID, domain.ErrNotFound)
	}

	next := stored.value
	next.Status = version.Status
	next.LayoutType = version.LayoutType
	next.Metadata = version.Metadata
	next.UpdatedAt = version.UpdatedAt
	next.PublishedAt = version.PublishedAt
	if err := r.checkUnique(&next); err != nil {
		return err
	}

	stored.value = next
	r.store.versions[version.ID] = stored
	return nil
}

// LockLesson is satisfied by the transaction manager, which already runs
// transactions one at a time. It only checks that the lesson exists.
func (r *VersionRepository) LockLesson(ctx context.Context, lessonID string) error {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if _, ok := r.store.lessons[lessonID]; !ok {
		return fmt.Errorf("lesson %s: %w", lessonID, domain.ErrNotFound)
	}
	return nil
}
