package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/api/transport"
	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// requestLogger returns the handler logger enriched with the correlation id
// and, when resolved, the caller identity.
func (h baseHandler) requestLogger(ctx *fasthttp.RequestCtx) *zap.Logger {
	log := h.logger.With(zap.String("request_id", httpcontext.RequestIDFrom(ctx)))
	if p, ok := httpcontext.PrincipalFrom(ctx); ok {
		log = log.With(zap.String("user_id", p.ID))
	}
	return log
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// fieldError writes the bare controller-level error shape used for
// expected authentication, validation and not-found outcomes.
func (h baseHandler) fieldError(ctx *fasthttp.RequestCtx, status int, message string) {
	h.respondJSON(ctx, status, transport.FieldError{Error: message})
}

// fail logs the error with the request-scoped logger and converts it to an
// error envelope. Domain errors keep their status and expose only their
// message; anything unclassified becomes the generic 500 envelope so that
// internal causes never reach the client.
func (h baseHandler) fail(ctx *fasthttp.RequestCtx, err error) {
	log := h.requestLogger(ctx)

	if dErr, ok := domain.AsError(err); ok && dErr.Status != 0 {
		if dErr.Status >= http.StatusInternalServerError {
			log.Error("request failed", zap.Error(err))
		} else {
			log.Warn("request failed", zap.Int("status", dErr.Status), zap.Error(err))
		}
		h.respondJSON(ctx, dErr.Status,
			transport.ErrorResponse{Success: false, Error: dErr.Message, Code: dErr.Code})
		return
	}

	log.Error("request failed", zap.Error(err))
	h.respondJSON(ctx, http.StatusInternalServerError,
		transport.NewFailure("Internal Server Error", "INTERNAL_ERROR"))
}
