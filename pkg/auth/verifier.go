package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when no verifier accepts a bearer token.
var ErrInvalidToken = errors.New("invalid token")

// Verifier turns a bearer token into the caller's claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// StaticTokenVerifier accepts the single shared secret issued to the
// application backend.
type StaticTokenVerifier struct {
	token   []byte
	subject string
	roles   []string
}

// NewStaticTokenVerifier creates a verifier for a shared internal token.
func NewStaticTokenVerifier(token, subject string, roles ...string) (*StaticTokenVerifier, error) {
	if token == "" {
		return nil, fmt.Errorf("static token must not be empty")
	}
	return &StaticTokenVerifier{token: []byte(token), subject: subject, roles: roles}, nil
}

// Verify compares in constant time.
func (v *StaticTokenVerifier) Verify(token string) (*Claims, error) {
	if subtle.ConstantTimeCompare([]byte(token), v.token) != 1 {
		return nil, ErrInvalidToken
	}
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: v.subject},
		Roles:            append([]string(nil), v.roles...),
	}, nil
}

// ChainVerifier tries each verifier in turn and returns the first success.
type ChainVerifier []Verifier

// Verify implements Verifier.
func (c ChainVerifier) Verify(token string) (*Claims, error) {
	errs := make([]error, 0, len(c))
	for _, v := range c {
		claims, err := v.Verify(token)
		if err == nil {
			return claims, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrInvalidToken
	}
	return nil, fmt.Errorf("%w: %w", ErrInvalidToken, errors.Join(errs...))
}
