package supabase

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/internal/store"
	"github.com/taskmanager/backend/repository"
)

type authRepository struct {
	client      *store.Client
	logger      *zap.Logger
	redirectURL string
}

// NewAuthRepository wraps the identity provider's password flows.
// redirectURL is where the reset email sends the user to finish the flow.
func NewAuthRepository(client *store.Client, logger *zap.Logger, redirectURL string) repository.AuthRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authRepository{client: client, logger: logger, redirectURL: redirectURL}
}

func (r *authRepository) RequestPasswordReset(ctx context.Context, email string) error {
	if err := r.client.RecoverPassword(ctx, email, r.redirectURL); err != nil {
		var apiErr *store.APIError
		if errors.As(err, &apiErr) {
			r.logger.Error("password reset request rejected",
				zap.Int("provider_status", apiErr.StatusCode), zap.String("code", apiErr.Code))
			return domain.NewError(http.StatusInternalServerError, apiErr.Message)
		}
		return err
	}
	return nil
}

// UpdatePassword maps provider statuses onto the API contract: expired or
// foreign recovery tokens read as 401, other client mistakes as 400.
func (r *authRepository) UpdatePassword(ctx context.Context, p domain.Principal, password string) error {
	err := r.client.WithToken(p.AccessToken).UpdatePassword(ctx, password)
	if err == nil {
		return nil
	}

	var apiErr *store.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	r.logger.Error("password update rejected",
		zap.Int("provider_status", apiErr.StatusCode), zap.String("code", apiErr.Code))

	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		return domain.NewError(http.StatusUnauthorized, apiErr.Message)
	case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return domain.NewError(http.StatusBadRequest, apiErr.Message)
	default:
		return domain.NewError(http.StatusInternalServerError, apiErr.Message)
	}
}
