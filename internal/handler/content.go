package handler

import (
	"log/slog"
	"net/http"

	models "lectern/internal/domain/models/lesson"
	lessonSvc "lectern/internal/domain/services/lesson"
	"lectern/internal/httputil"
)

// ContentHandler handles blocks, assets and assembled lesson documents
type ContentHandler struct {
	contentService lessonSvc.ContentService
	logger         *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService lessonSvc.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		logger:         logger,
	}
}

// AddBlock adds a block to a draft
// POST /api/versions/{id}/blocks
func (h *ContentHandler) AddBlock(w http.ResponseWriter, r *http.Request) {
	versionID, ok := pathID(w, r, "id", "version")
	if !ok {
		return
	}

	var req lessonSvc.AddBlockRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}

	b, err := h.contentService.AddBlock(r.Context(), versionID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, b)
}

// UpdateBlock edits or moves a block
// PATCH /api/blocks/{id}
func (h *ContentHandler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathID(w, r, "id", "block")
	if !ok {
		return
	}

	var req lessonSvc.UpdateBlockRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}

	b, err := h.contentService.UpdateBlock(r.Context(), blockID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, b)
}

// DeleteBlock removes a block from a draft
// DELETE /api/blocks/{id}
func (h *ContentHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathID(w, r, "id", "block")
	if !ok {
		return
	}

	if err := h.contentService.DeleteBlock(r.Context(), blockID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderBlocks sets the order of one slot's blocks
// PUT /api/versions/{id}/slots/{slot}/order
func (h *ContentHandler) ReorderBlocks(w http.ResponseWriter, r *http.Request) {
	versionID, ok := pathID(w, r, "id", "version")
	if !ok {
		return
	}

	var req lessonSvc.ReorderBlocksRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}

	blocks, err := h.contentService.ReorderBlocks(r.Context(), versionID, r.PathValue("slot"), req.BlockIDs)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, blocks)
}

// AttachAsset registers an uploaded asset with a draft
// POST /api/versions/{id}/assets
func (h *ContentHandler) AttachAsset(w http.ResponseWriter, r *http.Request) {
	versionID, ok := pathID(w, r, "id", "version")
	if !ok {
		return
	}

	var req lessonSvc.AttachAssetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}

	a, err := h.contentService.AttachAsset(r.Context(), versionID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, a)
}

// DetachAsset removes an asset from a draft
// DELETE /api/assets/{id}
func (h *ContentHandler) DetachAsset(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}

	if err := h.contentService.DetachAsset(r.Context(), assetID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetContent returns the assembled lesson document.
// view=student (default) serves the published version with the caller's
// progress overlay; view=author serves the working version with diagnostics.
// GET /api/lessons/{id}/content?view=student|author
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "id", "lesson")
	if !ok {
		return
	}

	view, err := models.ParseViewContext(r.URL.Query().Get("view"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if view == models.ViewAuthor {
		doc, err := h.contentService.GetDocument(r.Context(), lessonID, view)
		if err != nil {
			handleError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, doc)
		return
	}

	doc, err := h.contentService.GetStudentDocument(r.Context(), lessonID, httputil.CallerID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}
