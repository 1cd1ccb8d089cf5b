package lesson

import (
	"context"
	"log/slog"
	"time"

	"lectern/internal/config"
	models "lectern/internal/domain/models/lesson"
	lessonRepo "lectern/internal/domain/repositories/lesson"
	lessonSvc "lectern/internal/domain/services/lesson"
)

// progressService implements the ProgressService interface
type progressService struct {
	lessonRepo   lessonRepo.LessonRepository
	progressRepo lessonRepo.ProgressRepository
	logger       *slog.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(
	lessonRepo lessonRepo.LessonRepository,
	progressRepo lessonRepo.ProgressRepository,
	logger *slog.Logger,
) lessonSvc.ProgressService {
	return &progressService{
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
		logger:       logger,
	}
}

// RecordProgress stores a student's progress. Completing a lesson sets progress to 100.
func (s *progressService) RecordProgress(ctx context.Context, req *lessonSvc.RecordProgressRequest) (*models.ProgressRecord, error) {
	if err := validateRecordProgress(req); err != nil {
		return nil, err
	}
	if _, err := s.lessonRepo.GetByID(ctx, req.LessonID); err != nil {
		return nil, err
	}

	now := time.Now()
	record := &models.ProgressRecord{
		StudentID:    req.StudentID,
		LessonID:     req.LessonID,
		IsCompleted:  req.IsCompleted,
		Progress:     req.Progress,
		LastAccessed: &now,
	}
	if record.IsCompleted {
		record.Progress = config.MaxProgress
	}

	if err := s.progressRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Debug("progress recorded",
		"student_id", record.StudentID,
		"lesson_id", record.LessonID,
		"progress", record.Progress,
		"is_completed", record.IsCompleted,
	)

	return record, nil
}
