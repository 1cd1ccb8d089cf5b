package handler

import (
	"log/slog"
	"net/http"

	"lectern/internal/httputil"
	"lectern/internal/layout"
)

// LayoutHandler serves the layout catalog
type LayoutHandler struct {
	catalog *layout.Catalog
	logger  *slog.Logger
}

// NewLayoutHandler creates a new layout handler
func NewLayoutHandler(catalog *layout.Catalog, logger *slog.Logger) *LayoutHandler {
	return &LayoutHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListLayouts returns every layout type with its slots
// GET /api/layouts
func (h *LayoutHandler) ListLayouts(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.catalog.Layouts())
}

// GetLayout resolves one layout type. Unknown types resolve to the single layout.
// GET /api/layouts/{type}
func (h *LayoutHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.catalog.Resolve(r.PathValue("type")))
}
