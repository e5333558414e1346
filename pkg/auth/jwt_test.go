package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/savings-analytics/pkg/auth"
)

const testSecret = "test-secret-key-for-unit-tests"

func analystClaims(ttl time.Duration) auth.Claims {
	now := time.Now()
	return auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "savings-backend",
			Subject:   "analyst-7",
			Audience:  jwt.ClaimStrings{"savings-analytics"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: []string{auth.RoleAnalyst},
	}
}

func signHS256(t *testing.T, secret string, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newHMACVerifier(t *testing.T) *auth.JWTVerifier {
	t.Helper()
	v, err := auth.NewJWTVerifier(auth.JWTConfig{
		Secret:   testSecret,
		Issuer:   "savings-backend",
		Audience: "savings-analytics",
	})
	require.NoError(t, err)
	return v
}

func TestJWTVerifier_HMAC(t *testing.T) {
	v := newHMACVerifier(t)

	claims, err := v.Verify(signHS256(t, testSecret, analystClaims(15*time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, "analyst-7", claims.Subject)
	assert.True(t, claims.HasRole(auth.RoleAnalyst))
	assert.False(t, claims.HasRole(auth.RoleAdmin))
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := newHMACVerifier(t)

	wrongIssuer := analystClaims(time.Minute)
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := analystClaims(time.Minute)
	wrongAudience.Audience = jwt.ClaimStrings{"ledger"}
	noSubject := analystClaims(time.Minute)
	noSubject.Subject = ""
	noExpiry := analystClaims(time.Minute)
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong signature", token: signHS256(t, "another-secret", analystClaims(time.Minute))},
		{name: "expired", token: signHS256(t, testSecret, analystClaims(-time.Hour))},
		{name: "wrong issuer", token: signHS256(t, testSecret, wrongIssuer)},
		{name: "wrong audience", token: signHS256(t, testSecret, wrongAudience)},
		{name: "missing subject", token: signHS256(t, testSecret, noSubject)},
		{name: "missing expiry", token: signHS256(t, testSecret, noExpiry)},
		{name: "malformed", token: "not-a-jwt"},
		{name: "empty", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestJWTVerifier_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	v, err := auth.NewJWTVerifier(auth.JWTConfig{PublicKeyPEM: string(pubPEM), Issuer: "savings-backend"})
	require.NoError(t, err)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, analystClaims(time.Minute)).SignedString(key)
	require.NoError(t, err)
	claims, err := v.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "analyst-7", claims.Subject)

	t.Run("HMAC token is refused by an RSA verifier", func(t *testing.T) {
		_, err := v.Verify(signHS256(t, string(pubPEM), analystClaims(time.Minute)))
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestJWTVerifier_Leeway(t *testing.T) {
	v, err := auth.NewJWTVerifier(auth.JWTConfig{Secret: testSecret, Leeway: time.Minute})
	require.NoError(t, err)

	_, err = v.Verify(signHS256(t, testSecret, analystClaims(-10*time.Second)))
	assert.NoError(t, err, "expired within the leeway")
}

func TestNewJWTVerifier_Errors(t *testing.T) {
	_, err := auth.NewJWTVerifier(auth.JWTConfig{})
	assert.Error(t, err)

	_, err = auth.NewJWTVerifier(auth.JWTConfig{PublicKeyPEM: "not a key"})
	assert.Error(t, err)
}
