package middleware

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/pkg/httpcontext"
)

// RequestLog assigns a correlation id to every request, echoes it back as a
// response header and emits start/finish log entries with the elapsed time.
func RequestLog(base *zap.Logger) Middleware {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			reqID := string(ctx.Request.Header.Peek("X-Request-ID"))
			if strings.TrimSpace(reqID) == "" {
				reqID = uuid.NewString()
			}
			httpcontext.SetRequestID(ctx, reqID)
			ctx.Response.Header.Set("X-Request-ID", reqID)

			log := base.With(zap.String("request_id", reqID))
			log.Info("request started",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.ByteString("origin", ctx.Request.Header.Peek("Origin")),
				zap.ByteString("user_agent", ctx.Request.Header.UserAgent()),
			)

			start := time.Now()
			next(ctx)

			durationMs := math.Round(float64(time.Since(start).Nanoseconds())/1e6*100) / 100
			log.Info("request finished",
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Float64("duration_ms", durationMs),
			)
		}
	}
}
