package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures verification of analyst tokens issued by the
// application backend.
type JWTConfig struct {
	// Secret is the shared HMAC key. Ignored when PublicKeyPEM is set.
	Secret string

	// PublicKeyPEM is the issuer's PEM-encoded RSA public key.
	PublicKeyPEM string

	Issuer   string
	Audience string

	// Leeway tolerates clock skew on exp and nbf.
	Leeway time.Duration
}

// JWTVerifier validates bearer JWTs. It never issues tokens.
type JWTVerifier struct {
	key    any
	parser *jwt.Parser
}

// NewJWTVerifier creates a verifier. An RSA public key takes precedence over
// the HMAC secret; one of them is required.
func NewJWTVerifier(cfg JWTConfig) (*JWTVerifier, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}

	v := &JWTVerifier{}
	switch {
	case cfg.PublicKeyPEM != "":
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse RSA public key: %w", err)
		}
		v.key = pub
		opts = append(opts, jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}))
	case cfg.Secret != "":
		v.key = []byte(cfg.Secret)
		opts = append(opts, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	default:
		return nil, errors.New("jwt verification requires PublicKeyPEM or Secret")
	}
	v.parser = jwt.NewParser(opts...)
	return v, nil
}

// Verify parses and validates a token string. It implements Verifier.
func (v *JWTVerifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
