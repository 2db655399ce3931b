package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/taskmanager/backend/domain"
	appLogger "github.com/taskmanager/backend/pkg/logger"
)

// Request-state keys shared between the middleware chain and handlers.
const (
	KeyRequestID = "request_id"
	KeyPrincipal = "principal"
)

// SetPrincipal stores the resolved principal on the request.
func SetPrincipal(ctx *fasthttp.RequestCtx, p domain.Principal) {
	ctx.SetUserValue(KeyPrincipal, p)
}

// PrincipalFrom returns the principal attached by the identity verifier.
func PrincipalFrom(ctx *fasthttp.RequestCtx) (domain.Principal, bool) {
	p, ok := ctx.UserValue(KeyPrincipal).(domain.Principal)
	return p, ok
}

// SetRequestID stores the correlation id on the request.
func SetRequestID(ctx *fasthttp.RequestCtx, id string) {
	ctx.SetUserValue(KeyRequestID, id)
}

// RequestIDFrom returns the correlation id, falling back to the inbound
// header or a fresh id when the decorator has not run.
func RequestIDFrom(ctx *fasthttp.RequestCtx) string {
	if id, ok := ctx.UserValue(KeyRequestID).(string); ok && id != "" {
		return id
	}
	if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}

// Adapter converts fasthttp.RequestCtx into a stdlib context carrying the
// correlation id and user id for downstream logging.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and
// enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	stdCtx = appLogger.ContextWithRequestID(stdCtx, RequestIDFrom(ctx))
	if p, ok := PrincipalFrom(ctx); ok {
		stdCtx = appLogger.ContextWithUserID(stdCtx, p.ID)
	}

	return stdCtx, cancel
}
