package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"lectern/internal/domain"
	"lectern/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

func newTestVerifier(t *testing.T) (*JWKSVerifier, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	kf := func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}
	return NewVerifier(kf, slog.New(slog.NewTextHandler(io.Discard, nil))), key
}

func sign(t *testing.T, key *ecdsa.PrivateKey, claims models.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func claimsFor(subject, role string, expiresIn time.Duration) models.Claims {
	return models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
		Role: role,
	}
}

func TestVerifyToken_Valid(t *testing.T) {
	verifier, key := newTestVerifier(t)

	claims, err := verifier.VerifyToken(sign(t, key, claimsFor("student-1", "authenticated", time.Hour)))
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.GetUserID() != "student-1" {
		t.Errorf("user = %q", claims.GetUserID())
	}
}

func TestVerifyToken_Rejects(t *testing.T) {
	verifier, key := newTestVerifier(t)

	noExpiry := models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "student-1"}}
	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsFor("student-1", "authenticated", time.Hour)).
		SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired", sign(t, key, claimsFor("student-1", "authenticated", -time.Minute))},
		{"missing expiry", sign(t, key, noExpiry)},
		{"empty subject", sign(t, key, claimsFor("", "authenticated", time.Hour))},
		{"anonymous role", sign(t, key, claimsFor("student-1", "anon", time.Hour))},
		{"disallowed algorithm", hs256},
		{"garbage", "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := verifier.VerifyToken(tt.token); !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestNewJWKSVerifier_RequiresURL(t *testing.T) {
	if _, err := NewJWKSVerifier(t.Context(), "", slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("expected an error for an empty JWKS URL")
	}
}
