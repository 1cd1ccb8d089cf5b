package httputil

import (
	"context"
	"net/http"
)

type callerKey struct{}

// WithCaller attaches the authenticated author or student ID to the request
func WithCaller(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), callerKey{}, userID))
}

// CallerID returns the authenticated user ID, or "" for an anonymous request.
// Anonymous callers only ever see published lesson content.
func CallerID(r *http.Request) string {
	userID, _ := r.Context().Value(callerKey{}).(string)
	return userID
}

// IsAnonymous reports whether the request carries no caller
func IsAnonymous(r *http.Request) bool {
	return CallerID(r) == ""
}
