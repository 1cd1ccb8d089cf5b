package lesson

import (
	"context"
	"fmt"

	models "lectern/internal/domain/models/lesson"
	lessonRepo "lectern/internal/domain/repositories/lesson"
	"lectern/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProgressRepository implements the ProgressRepository interface
type PostgresProgressRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(config *postgres.RepositoryConfig) lessonRepo.ProgressRepository {
	return &PostgresProgressRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ListByStudent returns the student's records for the given lessons
func (r *PostgresProgressRepository) ListByStudent(ctx context.Context, studentID string, lessonIDs []string) ([]models.ProgressRecord, error) {
	if len(lessonIDs) == 0 {
		return []models.ProgressRecord{}, nil
	}

	query := fmt.Sprintf(`
		SELECT student_id, lesson_id, is_completed, progress, last_accessed
		FROM %s
		WHERE student_id = $1 AND lesson_id = ANY($2)
	`, r.tables.Progress)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, studentID, lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	records := []models.ProgressRecord{}
	for rows.Next() {
		var p models.ProgressRecord
		if err := rows.Scan(&p.StudentID, &p.LessonID, &p.IsCompleted, &p.Progress, &p.LastAccessed); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		records = append(records, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}

	return records, nil
}

// Upsert creates or replaces the record for (StudentID, LessonID)
func (r *PostgresProgressRepository) Upsert(ctx context.Context, record *models.ProgressRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (student_id, lesson_id, is_completed, progress, last_accessed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, lesson_id) DO UPDATE
		SET is_completed = EXCLUDED.is_completed,
		    progress = EXCLUDED.progress,
		    last_accessed = EXCLUDED.last_accessed
	`, r.tables.Progress)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		record.StudentID,
		record.LessonID,
		record.IsCompleted,
		record.Progress,
		record.LastAccessed,
	)
	if err != nil {
		return postgres.MapWriteError(err, "upsert progress", "progress", record.LessonID)
	}

	return nil
}
