package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claim set issued by the identity provider in front of the course platform.
// The subject identifies the author or student making the request.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user ID from the JWT subject claim
func (c *Claims) GetUserID() string {
	return c.Subject
}
