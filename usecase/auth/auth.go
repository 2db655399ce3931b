package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/repository"
)

// UseCase drives the identity provider's password recovery flows.
type UseCase struct {
	auth   repository.AuthRepository
	logger *zap.Logger
}

func New(auth repository.AuthRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{auth: auth, logger: logger}
}

func (uc *UseCase) RequestPasswordReset(ctx context.Context, email string) error {
	return uc.auth.RequestPasswordReset(ctx, email)
}

func (uc *UseCase) UpdatePassword(ctx context.Context, p domain.Principal, password string) error {
	return uc.auth.UpdatePassword(ctx, p, password)
}
