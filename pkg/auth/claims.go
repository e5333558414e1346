package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the caller of the analytics service.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Role constants
const (
	RoleAdmin   = "admin"
	RoleBackend = "backend"
	RoleAnalyst = "analyst"
)
