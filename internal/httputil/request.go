package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"lectern/internal/config"
)

// ErrBodyTooLarge is returned by ParseJSON when the body exceeds config.MaxRequestBodyBytes
var ErrBodyTooLarge = errors.New("request body too large")

// ParseJSON decodes a JSON request body into dest. Bodies are capped at
// config.MaxRequestBodyBytes; block content and settings are opaque maps, so
// unknown fields are tolerated and validation happens in the services.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// RespondParseError writes the response for a ParseJSON failure: 413 for an
// oversized body, 400 otherwise
func RespondParseError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	RespondError(w, http.StatusBadRequest, "Invalid request body")
}
