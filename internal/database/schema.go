// Package database owns the postgres schema for lesson content.
package database

import (
	"context"
	"fmt"
	"strings"

	"lectern/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the lesson tables and indexes if they do not exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	for _, stmt := range schemaStatements(tables, tablePrefix) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w\n%s", err, strings.TrimSpace(stmt))
		}
	}

	return nil
}

func schemaStatements(t *postgres.TableNames, prefix string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + t.Lessons + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			section_id TEXT NOT NULL,
			course_id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			is_preview BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS ` + t.Versions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			lesson_id UUID NOT NULL REFERENCES ` + t.Lessons + `(id) ON DELETE CASCADE,
			version_number INTEGER NOT NULL CHECK (version_number > 0),
			status TEXT NOT NULL CHECK (status IN ('draft', 'published', 'archived')),
			layout_type TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			published_at TIMESTAMPTZ,
			UNIQUE (lesson_id, version_number)
		)`,

		`CREATE TABLE IF NOT EXISTS ` + t.Blocks + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			version_id UUID NOT NULL REFERENCES ` + t.Versions + `(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			slot_id TEXT NOT NULL,
			order_index INTEGER NOT NULL,
			content JSONB NOT NULL DEFAULT '{}'::jsonb,
			settings JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (version_id, slot_id, order_index)
		)`,

		`CREATE TABLE IF NOT EXISTS ` + t.Assets + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			version_id UUID NOT NULL REFERENCES ` + t.Versions + `(id) ON DELETE CASCADE,
			type TEXT NOT NULL CHECK (type IN ('image', 'video', 'pdf', 'document', 'audio')),
			filename TEXT NOT NULL,
			url TEXT NOT NULL,
			preview_url TEXT,
			file_size BIGINT NOT NULL DEFAULT 0 CHECK (file_size >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS ` + t.Progress + ` (
			student_id TEXT NOT NULL,
			lesson_id UUID NOT NULL REFERENCES ` + t.Lessons + `(id) ON DELETE CASCADE,
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			progress INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
			last_accessed TIMESTAMPTZ,
			PRIMARY KEY (student_id, lesson_id)
		)`,

		// At most one published version per lesson
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + prefix + `lesson_versions_one_published
			ON ` + t.Versions + `(lesson_id) WHERE status = 'published'`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `lessons_section
			ON ` + t.Lessons + `(section_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `lesson_assets_version
			ON ` + t.Assets + `(version_id)`,
	}
}

// DropAll drops every lesson table, children first
func DropAll(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) ([]string, error) {
	all := tables.All()
	dropped := make([]string, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+all[i]+" CASCADE"); err != nil {
			return dropped, fmt.Errorf("drop %s: %w", all[i], err)
		}
		dropped = append(dropped, all[i])
	}
	return dropped, nil
}

// ClearData deletes all lessons; versions, blocks, assets and progress cascade
func ClearData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Lessons); err != nil {
		return fmt.Errorf("clear lessons: %w", err)
	}
	return nil
}
