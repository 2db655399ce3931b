package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/api/transport"
	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/pkg/httpcontext"
	authUC "github.com/taskmanager/backend/usecase/auth"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// ForgotPassword asks the identity provider to email a reset link. The
// route is unauthenticated; only the email format is checked here.
func (h *AuthHandler) ForgotPassword(ctx *fasthttp.RequestCtx) {
	var req transport.ForgotPasswordRequest
	_ = json.Unmarshal(ctx.PostBody(), &req)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !emailPattern.MatchString(email) {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.ErrorResponse{Success: false, Error: "Please provide a valid email address"})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RequestPasswordReset(stdCtx, email); err != nil {
		h.failAuth(ctx, err, "Could not process forgot password request")
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewMessage("Password reset email sent"))
}

// ResetPassword sets a new password using the recovery bearer token the
// provider emailed to the user.
func (h *AuthHandler) ResetPassword(ctx *fasthttp.RequestCtx) {
	p, ok := httpcontext.PrincipalFrom(ctx)
	if !ok {
		h.respondJSON(ctx, http.StatusUnauthorized,
			transport.ErrorResponse{Success: false, Error: "Invalid or expired token"})
		return
	}

	var req transport.ResetPasswordRequest
	_ = json.Unmarshal(ctx.PostBody(), &req)

	if len(req.Password) < minPasswordLength {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.ErrorResponse{Success: false, Error: "Password must be at least 6 characters long"})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.UpdatePassword(stdCtx, p, req.Password); err != nil {
		h.failAuth(ctx, err, "Could not update password")
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewMessage("Password updated successfully"))
}

// failAuth responds with the provider-mapped status for domain errors and
// hides everything else behind a generic message.
func (h *AuthHandler) failAuth(ctx *fasthttp.RequestCtx, err error, generic string) {
	log := h.requestLogger(ctx)
	if dErr, ok := domain.AsError(err); ok && dErr.Status != 0 {
		log.Warn("auth request rejected", zap.Int("status", dErr.Status), zap.Error(err))
		h.respondJSON(ctx, dErr.Status, transport.ErrorResponse{Success: false, Error: dErr.Message})
		return
	}
	log.Error("auth request failed", zap.Error(err))
	h.respondJSON(ctx, http.StatusInternalServerError,
		transport.ErrorResponse{Success: false, Error: generic})
}
