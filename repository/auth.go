package repository

import (
	"context"

	"github.com/taskmanager/backend/domain"
)

// AuthRepository exposes the identity provider's password flows. Provider
// failures come back as domain errors already mapped to HTTP statuses.
type AuthRepository interface {
	RequestPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, p domain.Principal, password string) error
}
