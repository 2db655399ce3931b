package middleware

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/api/transport"
	"github.com/taskmanager/backend/pkg/httpcontext"
)

// Recover is the terminal failure boundary: any panic escaping the pipeline
// is logged with its cause and downgraded to a generic envelope. The
// original message never reaches the client.
func Recover(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("unhandled panic",
						zap.String("request_id", httpcontext.RequestIDFrom(ctx)),
						zap.ByteString("method", ctx.Method()),
						zap.ByteString("path", ctx.Path()),
						zap.Any("panic", r),
						zap.Stack("stack"),
					)
					writeJSON(ctx, http.StatusInternalServerError,
						transport.NewFailure("Internal Server Error", "INTERNAL_ERROR"))
				}
			}()

			next(ctx)
		}
	}
}
