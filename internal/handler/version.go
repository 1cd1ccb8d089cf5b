package handler

import (
	"log/slog"
	"net/http"

	lessonSvc "lectern/internal/domain/services/lesson"
	"lectern/internal/httputil"
)

// VersionHandler handles HTTP requests for lesson versions
type VersionHandler struct {
	versionService lessonSvc.VersionService
	logger         *slog.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(versionService lessonSvc.VersionService, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{
		versionService: versionService,
		logger:         logger,
	}
}

// ListVersions lists a lesson's versions by version number
// GET /api/lessons/{id}/versions
func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id", "lesson")
	if !ok {
		return
	}

	versions, err := h.versionService.ListVersions(r.Context(), lessonID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// CreateVersion creates the lesson's next draft
// POST /api/lessons/{id}/versions
func (h *VersionHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id", "lesson")
	if !ok {
		return
	}

	var req lessonSvc.CreateVersionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}
	req.LessonID = lessonID

	v, err := h.versionService.CreateVersion(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, v)
}

// UpdateVersion edits a draft's layout or metadata
// PATCH /api/versions/{id}
func (h *VersionHandler) UpdateVersion(w http.ResponseWriter, r *http.Request) {
	versionID, ok := pathID(w, r, "id", "version")
	if !ok {
		return
	}

	var req lessonSvc.UpdateVersionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}

	v, err := h.versionService.UpdateVersion(r.Context(), versionID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, v)
}

// PublishVersion publishes a draft, archiving the previously published version
// POST /api/versions/{id}/publish
func (h *VersionHandler) PublishVersion(w http.ResponseWriter, r *http.Request) {
	versionID, ok := pathID(w, r, "id", "version")
	if !ok {
		return
	}

	v, err := h.versionService.PublishVersion(r.Context(), versionID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, v)
}
