package handler

import (
	"errors"
	"net/http"
	"time"

	"lectern/internal/domain"
	"lectern/internal/httputil"

	"github.com/google/uuid"
)

// handleError converts domain errors to HTTP responses. Typed errors carry
// their own status; wrapped sentinels from the repositories fall back to the
// matching code.
func handleError(w http.ResponseWriter, err error) {
	var (
		conflictErr *domain.ConflictError
		stateErr    *domain.InvalidStateError
		httpErr     domain.HTTPError
	)

	switch {
	case errors.As(err, &stateErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, stateErr.Error(), map[string]interface{}{
			"resource_type": stateErr.ResourceType,
			"resource_id":   stateErr.ResourceID,
			"state":         stateErr.From,
			"action":        stateErr.Action,
		})
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID reads a UUID path parameter, writing a 400 and returning false when it is malformed
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	id := r.PathValue(name)
	if _, err := uuid.Parse(id); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid "+label+" ID")
		return "", false
	}
	return id, true
}

// requireUser returns the caller's ID, writing a 401 when the request is anonymous
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	if httputil.IsAnonymous(r) {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return httputil.CallerID(r), true
}

// HealthCheck is a simple health check endpoint
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
