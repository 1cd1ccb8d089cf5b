package lesson

import (
	"log/slog"

	lessonSvc "lectern/internal/domain/services/lesson"
	"lectern/internal/layout"
	"lectern/internal/storage"
)

// Services holds all lesson services
type Services struct {
	Lesson   lessonSvc.LessonService
	Version  lessonSvc.VersionService
	Content  lessonSvc.ContentService
	Progress lessonSvc.ProgressService
}

// SetupServices wires the lesson services over one set of repositories
func SetupServices(repos *storage.Repositories, catalog *layout.Catalog, policy VersionPolicy, logger *slog.Logger) *Services {
	return &Services{
		Lesson: NewLessonService(repos.Lessons, repos.Versions, repos.Progress, logger),
		Version: NewVersionService(
			repos.Lessons,
			repos.Versions,
			repos.Blocks,
			repos.Assets,
			repos.TxManager,
			catalog,
			policy,
			logger,
		),
		Content: NewContentService(
			repos.Lessons,
			repos.Versions,
			repos.Blocks,
			repos.Assets,
			repos.Progress,
			repos.TxManager,
			catalog,
			logger,
		),
		Progress: NewProgressService(repos.Lessons, repos.Progress, logger),
	}
}
