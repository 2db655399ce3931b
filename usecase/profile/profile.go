package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/repository"
)

// UseCase orchestrates profile reads and the two allowed mutations:
// renaming and the terminal disable.
type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{users: users, logger: logger}
}

func (uc *UseCase) Get(ctx context.Context, p domain.Principal) (*domain.UserProfile, error) {
	return uc.users.Get(ctx, p)
}

func (uc *UseCase) UpdateName(ctx context.Context, p domain.Principal, name string) (*domain.UserProfile, error) {
	return uc.users.UpdateName(ctx, p, name)
}

// Disable soft-deletes the account. There is no reactivation path.
func (uc *UseCase) Disable(ctx context.Context, p domain.Principal) (*domain.UserProfile, error) {
	user, err := uc.users.Disable(ctx, p)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("user account disabled", zap.String("user_id", p.ID))
	return user, nil
}
