package lesson

import (
	"context"
	"fmt"

	"lectern/internal/domain"
	models "lectern/internal/domain/models/lesson"
	lessonRepo "lectern/internal/domain/repositories/lesson"
	"lectern/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLessonRepository implements the LessonRepository interface
type PostgresLessonRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(config *postgres.RepositoryConfig) lessonRepo.LessonRepository {
	return &PostgresLessonRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const lessonColumns = `id, section_id, course_id, title, slug, position, is_preview, created_at, updated_at`

func scanLesson(row interface{ Scan(dest ...any) error }, l *models.Lesson) error {
	return row.Scan(
		&l.ID,
		&l.SectionID,
		&l.CourseID,
		&l.Title,
		&l.Slug,
		&l.Position,
		&l.IsPreview,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
}

// Create creates a new lesson
func (r *PostgresLessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (section_id, course_id, title, slug, position, is_preview, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Lessons)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		lesson.SectionID,
		lesson.CourseID,
		lesson.Title,
		lesson.Slug,
		lesson.Position,
		lesson.IsPreview,
		lesson.CreatedAt,
		lesson.UpdatedAt,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		return postgres.MapWriteError(err, "create lesson", "lesson", "")
	}

	return nil
}

// GetByID retrieves a lesson by ID
func (r *PostgresLessonRepository) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, lessonColumns, r.tables.Lessons)

	var l models.Lesson
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanLesson(executor.QueryRow(ctx, query, id), &l); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	return &l, nil
}

// ListBySection lists a section's lessons ordered by position, then creation time
func (r *PostgresLessonRepository) ListBySection(ctx context.Context, sectionID string) ([]models.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE section_id = $1
		ORDER BY position ASC, created_at ASC, id ASC
	`, lessonColumns, r.tables.Lessons)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := scanLesson(rows, &l); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

// Update updates title, slug, position and preview flag
func (r *PostgresLessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, slug = $2, position = $3, is_preview = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Lessons)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		lesson.Title,
		lesson.Slug,
		lesson.Position,
		lesson.IsPreview,
		lesson.UpdatedAt,
		lesson.ID,
	)
	if err != nil {
		return postgres.MapWriteError(err, "update lesson", "lesson", lesson.ID)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lesson %s: %w", lesson.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a lesson. Versions, blocks, assets and progress go with it via ON DELETE CASCADE.
func (r *PostgresLessonRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Lessons)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
