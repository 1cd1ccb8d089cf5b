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

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *postgres.RepositoryConfig) lessonRepo.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const versionColumns = `id, lesson_id, version_number, status, layout_type, metadata, created_at, updated_at, published_at`

// metadata is JSONB; pgx encodes and decodes the struct through its json codec
func scanVersion(row interface{ Scan(dest ...any) error }, v *models.LessonVersion) error {
	return row.Scan(
		&v.ID,
		&v.LessonID,
		&v.VersionNumber,
		&v.Status,
		&v.LayoutType,
		&v.Metadata,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.PublishedAt,
	)
}

func (r *PostgresVersionRepository) list(ctx context.Context, query string, args ...any) ([]models.LessonVersion, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	versions := []models.LessonVersion{}
	for rows.Next() {
		var v models.LessonVersion
		if err := scanVersion(rows, &v); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	return versions, nil
}

// Create inserts a version
func (r *PostgresVersionRepository) Create(ctx context.Context, version *models.LessonVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (lesson_id, version_number, status, layout_type, metadata, created_at, updated_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Versions)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		version.LessonID,
		version.VersionNumber,
		version.Status,
		version.LayoutType,
		version.Metadata,
		version.CreatedAt,
		version.UpdatedAt,
		version.PublishedAt,
	).Scan(&version.ID, &version.CreatedAt, &version.UpdatedAt)
	if err != nil {
		return postgres.MapWriteError(err, "create version", "lesson_version", "")
	}

	return nil
}

// GetByID retrieves a version by ID
func (r *PostgresVersionRepository) GetByID(ctx context.Context, id string) (*models.LessonVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, versionColumns, r.tables.Versions)

	var v models.LessonVersion
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanVersion(executor.QueryRow(ctx, query, id), &v); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &v, nil
}

// ListByLesson lists a lesson's versions ordered by version_number ascending
func (r *PostgresVersionRepository) ListByLesson(ctx context.Context, lessonID string) ([]models.LessonVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE lesson_id = $1
		ORDER BY version_number ASC
	`, versionColumns, r.tables.Versions)

	return r.list(ctx, query, lessonID)
}

// ListPublishedByLessons returns the published version of each given lesson that has one
func (r *PostgresVersionRepository) ListPublishedByLessons(ctx context.Context, lessonIDs []string) ([]models.LessonVersion, error) {
	if len(lessonIDs) == 0 {
		return []models.LessonVersion{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE lesson_id = ANY($1) AND status = $2
	`, versionColumns, r.tables.Versions)

	return r.list(ctx, query, lessonIDs, models.StatusPublished)
}

// Update persists status, layout, metadata and timestamps
func (r *PostgresVersionRepository) Update(ctx context.Context, version *models.LessonVersion) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, layout_type = $2, metadata = $3, updated_at = $4, published_at = $5
		WHERE id = $6
	`, r.tables.Versions)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		version.Status,
		version.LayoutType,
		version.Metadata,
		version.UpdatedAt,
		version.PublishedAt,
		version.ID,
	)
	if err != nil {
		return postgres.MapWriteError(err, "update version", "lesson_version", version.ID)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("version %s: %w", version.ID, domain.ErrNotFound)
	}

	return nil
}

// LockLesson takes a row lock on the lesson until the transaction ends
func (r *PostgresVersionRepository) LockLesson(ctx context.Context, lessonID string) error {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 FOR UPDATE`, r.tables.Lessons)

	var id string
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, lessonID).Scan(&id); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return fmt.Errorf("lesson %s: %w", lessonID, domain.ErrNotFound)
		}
		return fmt.Errorf("lock lesson: %w", err)
	}

	return nil
}
