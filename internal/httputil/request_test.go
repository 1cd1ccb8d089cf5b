package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lectern/internal/config"
)

func TestParseJSON(t *testing.T) {
	oversized := `{"content":{"text":"` + strings.Repeat("a", config.MaxRequestBodyBytes) + `"}}`

	tests := []struct {
		name       string
		body       string
		wantErr    bool
		wantStatus int
	}{
		{"block body", `{"type":"text","slot_id":"main","extra":1}`, false, 0},
		{"malformed", `{"type":`, true, http.StatusBadRequest},
		{"over the body cap", oversized, true, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/versions/v1/blocks", strings.NewReader(tt.body))

			var dest struct {
				Type   string `json:"type"`
				SlotID string `json:"slot_id"`
			}
			err := ParseJSON(rec, req, &dest)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if dest.Type != "text" || dest.SlotID != "main" {
					t.Errorf("decoded %+v", dest)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrBodyTooLarge); got != (tt.wantStatus == http.StatusRequestEntityTooLarge) {
				t.Errorf("errors.Is(err, ErrBodyTooLarge) = %v for %v", got, err)
			}

			out := httptest.NewRecorder()
			RespondParseError(out, err)
			if out.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", out.Code, tt.wantStatus)
			}
		})
	}
}

func TestCaller(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/lessons/l1/content", nil)
	if !IsAnonymous(req) || CallerID(req) != "" {
		t.Fatalf("fresh request should be anonymous, got %q", CallerID(req))
	}

	req = WithCaller(req, "student-1")
	if IsAnonymous(req) {
		t.Error("request with a caller reported anonymous")
	}
	if got := CallerID(req); got != "student-1" {
		t.Errorf("CallerID = %q", got)
	}
}
