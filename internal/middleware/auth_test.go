package middleware

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/pkg/httpcontext"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authCtx(authorization string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/api/tasks")
	if authorization != "" {
		ctx.Request.Header.Set("Authorization", authorization)
	}
	return ctx
}

func errorField(t *testing.T, ctx *fasthttp.RequestCtx) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &payload))
	return payload["error"]
}

func TestAuthenticate_NoToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "bare token", header: signTokenHeaderless},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			handler := Authenticate(testSecret, zap.NewNop())(func(*fasthttp.RequestCtx) {
				nextCalled = true
			})

			ctx := authCtx(tt.header)
			handler(ctx)

			assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
			assert.Equal(t, "No token provided", errorField(t, ctx))
			assert.False(t, nextCalled)
		})
	}
}

const signTokenHeaderless = "eyJhbGciOiJIUzI1NiJ9.e30.sig"

func TestAuthenticate_InvalidToken(t *testing.T) {
	wrongSecret := signToken(t, "other-secret", jwt.MapClaims{"sub": "u1"})
	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	noSubject := signToken(t, testSecret, jwt.MapClaims{"email": "u@example.com"})

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong secret", token: wrongSecret},
		{name: "expired", token: expired},
		{name: "no subject", token: noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			handler := Authenticate(testSecret, zap.NewNop())(func(*fasthttp.RequestCtx) {
				nextCalled = true
			})

			ctx := authCtx("Bearer " + tt.token)
			handler(ctx)

			assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
			assert.Equal(t, "Invalid or expired token", errorField(t, ctx))
			assert.False(t, nextCalled)
		})
	}
}

func TestAuthenticate_ValidTokenSetsPrincipal(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-123",
		"email": "u@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	var got domain.Principal
	handler := Authenticate(testSecret, zap.NewNop())(func(ctx *fasthttp.RequestCtx) {
		p, ok := httpcontext.PrincipalFrom(ctx)
		require.True(t, ok)
		got = p
		ctx.SetStatusCode(http.StatusOK)
	})

	ctx := authCtx("Bearer " + token)
	handler(ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "user-123", got.ID)
	assert.Equal(t, "u@example.com", got.Email)
	assert.Equal(t, token, got.AccessToken, "raw token kept as delegated store credential")
}
