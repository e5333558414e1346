package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/savings-analytics/pkg/auth"
)

func TestStaticTokenVerifier(t *testing.T) {
	v, err := auth.NewStaticTokenVerifier("s3cret", "backend", auth.RoleBackend)
	require.NoError(t, err)

	claims, err := v.Verify("s3cret")
	require.NoError(t, err)
	assert.Equal(t, "backend", claims.Subject)
	assert.True(t, claims.HasRole(auth.RoleBackend))

	_, err = v.Verify("s3cret2")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = auth.NewStaticTokenVerifier("", "backend")
	assert.Error(t, err)
}

func TestChainVerifier(t *testing.T) {
	static, err := auth.NewStaticTokenVerifier("s3cret", "backend", auth.RoleBackend)
	require.NoError(t, err)
	chain := auth.ChainVerifier{static, newHMACVerifier(t)}
	token := signHS256(t, testSecret, analystClaims(time.Minute))

	t.Run("static token", func(t *testing.T) {
		claims, err := chain.Verify("s3cret")
		require.NoError(t, err)
		assert.Equal(t, "backend", claims.Subject)
	})
	t.Run("jwt", func(t *testing.T) {
		claims, err := chain.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "analyst-7", claims.Subject)
		assert.True(t, claims.HasRole(auth.RoleAnalyst))
	})
	t.Run("unknown", func(t *testing.T) {
		_, err := chain.Verify("nope")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
	t.Run("empty chain", func(t *testing.T) {
		_, err := auth.ChainVerifier{}.Verify("s3cret")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
