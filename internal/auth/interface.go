package auth

import "lectern/internal/domain/models"

// TokenVerifier validates bearer tokens and returns their claims.
// Middleware depends on this interface, not on a concrete JWKS client.
type TokenVerifier interface {
	// VerifyToken returns domain.ErrUnauthorized for any invalid, expired or unsigned token
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases resources held by the verifier
	Close() error
}
