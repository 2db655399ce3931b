package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
}

func NewHealthHandler(adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{baseHandler: newBaseHandler(adapter, logger)}
}

// Check is the liveness probe. It intentionally does not call the hosted
// backend; the process serving requests is the signal.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "OK"})
}
