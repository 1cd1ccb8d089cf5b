package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lectern/internal/domain"
	"lectern/internal/domain/models"
	"lectern/internal/httputil"

	"github.com/golang-jwt/jwt/v5"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeVerifier accepts exactly one token
type fakeVerifier struct {
	token  string
	userID string
}

func (f *fakeVerifier) VerifyToken(token string) (*models.Claims, error) {
	if token != f.token {
		return nil, domain.ErrUnauthorized
	}
	return &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: f.userID}}, nil
}

func (f *fakeVerifier) Close() error { return nil }

// echoUser writes the resolved user ID as the response body
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(httputil.CallerID(r)))
})

func TestAuth_WithVerifier(t *testing.T) {
	handler := Auth(&fakeVerifier{token: "good", userID: "student-1"}, "", discard)(echoUser)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantUser string
	}{
		{"anonymous", "", http.StatusOK, ""},
		{"valid token", "Bearer good", http.StatusOK, "student-1"},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, ""},
		{"not a bearer token", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, ""},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/lessons", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && rec.Body.String() != tt.wantUser {
				t.Errorf("user = %q, want %q", rec.Body.String(), tt.wantUser)
			}
		})
	}
}

func TestAuth_DevMode(t *testing.T) {
	tests := []struct {
		name      string
		devUserID string
		header    string
		want      string
	}{
		{"header wins", "dev-user", "student-2", "student-2"},
		{"falls back to dev user", "dev-user", "", "dev-user"},
		{"anonymous", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(nil, tt.devUserID, discard)(echoUser)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(DevUserHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Body.String() != tt.want {
				t.Errorf("user = %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := RateLimit(ctx, 0.001, 2, time.Minute)(ok)

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("203.0.113.7:4000"); code != http.StatusOK {
			t.Fatalf("request %d within burst: %d", i, code)
		}
	}
	if code := send("203.0.113.7:4001"); code != http.StatusTooManyRequests {
		t.Errorf("request over burst: %d", code)
	}

	// Another client has its own bucket
	if code := send("198.51.100.2:4000"); code != http.StatusOK {
		t.Errorf("second client: %d", code)
	}
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ })
	handler := RateLimit(context.Background(), 0, 1, time.Minute)(next)

	for i := 0; i < 50; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	if calls != 50 {
		t.Errorf("calls = %d, want 50", calls)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct", "203.0.113.7:1234", "", "203.0.113.7"},
		{"public peer cannot spoof", "203.0.113.7:1234", "10.0.0.1", "203.0.113.7"},
		{"trusted proxy", "10.0.0.5:1234", "198.51.100.9, 10.0.0.5", "198.51.100.9"},
		{"loopback proxy", "127.0.0.1:1234", "198.51.100.9", "198.51.100.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRecovery_LogsCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("renderer exploded")
	})
	handler := Auth(&fakeVerifier{token: "good", userID: "author-1"}, "", discard)(Recovery(logger)(panicking))

	req := httptest.NewRequest(http.MethodGet, "/api/lessons/l1/content", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	for _, want := range []string{`"msg":"panic recovered"`, `"user_id":"author-1"`, `"path":"/api/lessons/l1/content"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log %q missing %s", buf.String(), want)
		}
	}
}
