package handler

import (
	"log/slog"
	"net/http"

	lessonSvc "lectern/internal/domain/services/lesson"
	"lectern/internal/httputil"
)

// ProgressHandler records student progress
type ProgressHandler struct {
	progressService lessonSvc.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService lessonSvc.ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		logger:          logger,
	}
}

// RecordProgress stores the caller's progress on a lesson
// PUT /api/lessons/{id}/progress
func (h *ProgressHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id", "lesson")
	if !ok {
		return
	}
	studentID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req lessonSvc.RecordProgressRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}
	req.StudentID = studentID
	req.LessonID = lessonID

	record, err := h.progressService.RecordProgress(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, record)
}
