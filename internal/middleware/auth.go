package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/api/transport"
	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/pkg/httpcontext"
)

// Authenticate verifies the bearer credential issued by the identity
// provider and attaches the resolved principal to the request. The raw
// token is kept as the delegated credential for store access and is never
// logged.
func Authenticate(secret string, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			log := logger.With(zap.String("request_id", httpcontext.RequestIDFrom(ctx)))

			header := string(ctx.Request.Header.Peek("Authorization"))
			if !strings.HasPrefix(header, "Bearer ") {
				log.Warn("missing bearer token", zap.ByteString("path", ctx.Path()))
				writeJSON(ctx, http.StatusUnauthorized, transport.FieldError{Error: "No token provided"})
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				log.Warn("invalid bearer token", zap.Error(err))
				writeJSON(ctx, http.StatusUnauthorized, transport.FieldError{Error: "Invalid or expired token"})
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				log.Warn("unexpected token claims")
				writeJSON(ctx, http.StatusUnauthorized, transport.FieldError{Error: "Invalid or expired token"})
				return
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				log.Warn("token missing subject")
				writeJSON(ctx, http.StatusUnauthorized, transport.FieldError{Error: "Invalid or expired token"})
				return
			}
			email, _ := claims["email"].(string)

			httpcontext.SetPrincipal(ctx, domain.Principal{
				ID:          sub,
				Email:       email,
				AccessToken: tokenString,
			})
			log.Debug("request authenticated", zap.String("user_id", sub))

			next(ctx)
		}
	}
}
