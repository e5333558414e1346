package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/bibbank/savings-analytics/pkg/auth"
)

func staticVerifier(t *testing.T) auth.Verifier {
	t.Helper()
	v, err := auth.NewStaticTokenVerifier("s3cret", "backend", auth.RoleBackend)
	require.NoError(t, err)
	return v
}

func TestHTTPMiddleware(t *testing.T) {
	var seen *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := auth.HTTPMiddleware(staticVerifier(t), []string{"/healthz"})(next)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "valid token", path: "/api/v1/risk", header: "Bearer s3cret", want: http.StatusNoContent},
		{name: "lowercase scheme", path: "/api/v1/risk", header: "bearer s3cret", want: http.StatusNoContent},
		{name: "missing header", path: "/api/v1/risk", want: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/api/v1/risk", header: "Basic s3cret", want: http.StatusUnauthorized},
		{name: "wrong token", path: "/api/v1/risk", header: "Bearer other", want: http.StatusUnauthorized},
		{name: "skipped path", path: "/healthz", want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
			if tt.header != "" && tt.want == http.StatusNoContent {
				require.NotNil(t, seen)
				assert.Equal(t, "backend", seen.Subject)
			}
		})
	}
}

func TestUnaryAuthInterceptor(t *testing.T) {
	interceptor := auth.UnaryAuthInterceptor(staticVerifier(t), []string{"/grpc.health.v1.Health/Check"})
	handler := func(ctx context.Context, _ interface{}) (interface{}, error) {
		claims, ok := auth.ClaimsFromContext(ctx)
		if !ok {
			return "anonymous", nil
		}
		return claims.Subject, nil
	}

	t.Run("valid token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer s3cret"))
		resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}, handler)
		require.NoError(t, err)
		assert.Equal(t, "backend", resp)
	})
	t.Run("missing metadata", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
	t.Run("invalid token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope"))
		_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
	t.Run("skipped method", func(t *testing.T) {
		resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		require.NoError(t, err)
		assert.Equal(t, "anonymous", resp)
	})
}
