package lesson

import (
	"context"

	models "lectern/internal/domain/models/lesson"
)

// VersionService handles the lesson version lifecycle
type VersionService interface {
	// ListVersions lists a lesson's versions by version number
	ListVersions(ctx context.Context, lessonID string) ([]models.LessonVersion, error)

	// SelectVersion returns the current version for the given view.
	// Student view returns domain.ErrNotFound when nothing is published.
	SelectVersion(ctx context.Context, lessonID string, view models.ViewContext) (*models.LessonVersion, error)

	// CreateVersion allocates the next version number and creates a draft
	CreateVersion(ctx context.Context, req *CreateVersionRequest) (*models.LessonVersion, error)

	// UpdateVersion edits layout or metadata of a draft
	UpdateVersion(ctx context.Context, versionID string, req *UpdateVersionRequest) (*models.LessonVersion, error)

	// PublishVersion publishes a draft and archives the previously published
	// version of the same lesson in one transaction
	PublishVersion(ctx context.Context, versionID string) (*models.LessonVersion, error)
}

// CreateVersionRequest represents a version creation request
type CreateVersionRequest struct {
	LessonID      string                  `json:"-"` // Set by handler from the URL
	LayoutType    *string                 `json:"layout_type,omitempty"`
	Metadata      *models.VersionMetadata `json:"metadata,omitempty"`
	FromVersionID *string                 `json:"from_version_id,omitempty"` // Copy layout, metadata, blocks and assets
}

// UpdateVersionRequest represents a draft edit
type UpdateVersionRequest struct {
	LayoutType *string                 `json:"layout_type,omitempty"`
	Metadata   *models.VersionMetadata `json:"metadata,omitempty"`
}
