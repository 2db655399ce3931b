package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/api/transport"
	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/pkg/httpcontext"
	profileUC "github.com/taskmanager/backend/usecase/profile"
)

type UserHandler struct {
	baseHandler
	uc *profileUC.UseCase
}

func NewUserHandler(uc *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// GetProfile returns the caller's own profile record.
func (h *UserHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Get(stdCtx, p)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewItem(user, ""))
}

// UpdateProfile renames the caller. Name is the only mutable field.
func (h *UserHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}

	var req transport.UpdateProfileRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.fieldError(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		h.fieldError(ctx, http.StatusBadRequest, "Name is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.UpdateName(stdCtx, p, name)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewItem(user, "User updated successfully"))
}

// DeleteAccount disables the caller's account. The flag is terminal; no
// reactivation endpoint exists.
func (h *UserHandler) DeleteAccount(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Disable(stdCtx, p)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewItem(user, "User disabled successfully"))
}

func (h *UserHandler) principal(ctx *fasthttp.RequestCtx) (domain.Principal, bool) {
	p, ok := httpcontext.PrincipalFrom(ctx)
	if !ok {
		h.fieldError(ctx, http.StatusUnauthorized, "Access denied")
	}
	return p, ok
}
