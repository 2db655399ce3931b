package repository

import (
	"context"

	"github.com/taskmanager/backend/domain"
)

// UserRepository provides profile persistence scoped to the principal's
// delegated credential. Disable is the terminal soft delete; there is no
// reactivation operation.
type UserRepository interface {
	Get(ctx context.Context, p domain.Principal) (*domain.UserProfile, error)
	UpdateName(ctx context.Context, p domain.Principal, name string) (*domain.UserProfile, error)
	Disable(ctx context.Context, p domain.Principal) (*domain.UserProfile, error)
}
