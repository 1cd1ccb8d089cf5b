package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lectern/internal/domain"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
		wantExtras map[string]interface{}
	}{
		{
			name:       "typed not found",
			err:        &domain.NotFoundError{Message: "lesson l1 has no published version"},
			wantStatus: http.StatusNotFound,
			wantDetail: "lesson l1 has no published version",
		},
		{
			name:       "wrapped typed validation",
			err:        fmt.Errorf("create version: %w", &domain.ValidationError{Message: "layout_type: must be a valid value"}),
			wantStatus: http.StatusBadRequest,
			wantDetail: "create version: layout_type: must be a valid value",
		},
		{
			name:       "typed unauthorized",
			err:        &domain.UnauthorizedError{Message: "token has no subject"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrapped sentinel not found",
			err:        fmt.Errorf("block b1: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantDetail: "block b1: not found",
		},
		{
			name:       "wrapped sentinel conflict",
			err:        fmt.Errorf("version number taken: %w", domain.ErrConflict),
			wantStatus: http.StatusConflict,
		},
		{
			name: "invalid state carries the transition",
			err: fmt.Errorf("publish: %w", &domain.InvalidStateError{
				ResourceType: "version", ResourceID: "v1", From: "archived", Action: "publish",
			}),
			wantStatus: http.StatusConflict,
			wantExtras: map[string]interface{}{"resource_id": "v1", "state": "archived", "action": "publish"},
		},
		{
			name:       "conflict carries the existing resource",
			err:        &domain.ConflictError{Message: "slot order taken", ResourceType: "block", ResourceID: "b9"},
			wantStatus: http.StatusConflict,
			wantExtras: map[string]interface{}{"resource_type": "block", "resource_id": "b9"},
		},
		{
			name:       "unknown error hides detail",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]interface{}
			decode(t, rec, &body)
			if tt.wantDetail != "" && body["detail"] != tt.wantDetail {
				t.Errorf("detail = %v, want %q", body["detail"], tt.wantDetail)
			}
			for k, want := range tt.wantExtras {
				if body[k] != want {
					t.Errorf("%s = %v, want %v", k, body[k], want)
				}
			}
		})
	}
}
