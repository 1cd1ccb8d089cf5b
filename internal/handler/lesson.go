package handler

import (
	"log/slog"
	"net/http"

	lessonSvc "lectern/internal/domain/services/lesson"
	"lectern/internal/httputil"
)

// LessonHandler handles HTTP requests for lessons
type LessonHandler struct {
	lessonService lessonSvc.LessonService
	logger        *slog.Logger
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService lessonSvc.LessonService, logger *slog.Logger) *LessonHandler {
	return &LessonHandler{
		lessonService: lessonService,
		logger:        logger,
	}
}

// CreateLesson creates a lesson in a section
// POST /api/sections/{id}/lessons
func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	sectionID := r.PathValue("id")
	if sectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	var req lessonSvc.CreateLessonRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}
	req.SectionID = sectionID

	l, err := h.lessonService.CreateLesson(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, l)
}

// ListSectionLessons returns the section outline with the caller's progress merged
// GET /api/sections/{id}/lessons
func (h *LessonHandler) ListSectionLessons(w http.ResponseWriter, r *http.Request) {
	sectionID := r.PathValue("id")
	if sectionID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	lessons, err := h.lessonService.ListSectionLessons(r.Context(), sectionID, httputil.CallerID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, lessons)
}

// GetLesson returns a lesson
// GET /api/lessons/{id}
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id", "lesson")
	if !ok {
		return
	}

	l, err := h.lessonService.GetLesson(r.Context(), lessonID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, l)
}

// UpdateLesson updates title, position or preview flag
// PATCH /api/lessons/{id}
func (h *LessonHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id", "lesson")
	if !ok {
		return
	}

	var req lessonSvc.UpdateLessonRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}

	l, err := h.lessonService.UpdateLesson(r.Context(), lessonID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, l)
}

// DeleteLesson deletes a lesson and everything it owns
// DELETE /api/lessons/{id}
func (h *LessonHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id", "lesson")
	if !ok {
		return
	}

	if err := h.lessonService.DeleteLesson(r.Context(), lessonID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
