package supabase

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/internal/store"
	appLogger "github.com/taskmanager/backend/pkg/logger"
	"github.com/taskmanager/backend/repository"
)

type userRepository struct {
	client *store.Client
	logger *zap.Logger
	slow   time.Duration
}

// NewUserRepository returns a hosted-store implementation of UserRepository.
func NewUserRepository(client *store.Client, logger *zap.Logger, slowThreshold time.Duration) repository.UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return &userRepository{client: client, logger: logger, slow: slowThreshold}
}

func (r *userRepository) Get(ctx context.Context, p domain.Principal) (*domain.UserProfile, error) {
	defer r.observe(ctx, "get user", time.Now())

	var user domain.UserProfile
	_, err := r.client.WithToken(p.AccessToken).
		From("users").
		Eq("id", p.ID).
		Single().
		Select(ctx, &user)
	if err != nil {
		return nil, domain.WrapError(http.StatusInternalServerError, "Error user does not exist", err)
	}
	return &user, nil
}

func (r *userRepository) UpdateName(ctx context.Context, p domain.Principal, name string) (*domain.UserProfile, error) {
	defer r.observe(ctx, "update user", time.Now())

	var user domain.UserProfile
	err := r.client.WithToken(p.AccessToken).
		From("users").
		Eq("id", p.ID).
		Single().
		Update(ctx, map[string]interface{}{"name": name}, &user)
	if err != nil {
		return nil, domain.WrapError(http.StatusInternalServerError, "Error updating user", err)
	}
	return &user, nil
}

func (r *userRepository) Disable(ctx context.Context, p domain.Principal) (*domain.UserProfile, error) {
	defer r.observe(ctx, "disable user", time.Now())

	var user domain.UserProfile
	err := r.client.WithToken(p.AccessToken).
		From("users").
		Eq("id", p.ID).
		Single().
		Update(ctx, map[string]interface{}{"enabled": false}, &user)
	if err != nil {
		return nil, domain.WrapError(http.StatusInternalServerError, "Error disabling user", err)
	}
	return &user, nil
}

func (r *userRepository) observe(ctx context.Context, op string, start time.Time) {
	elapsed := time.Since(start)
	if elapsed < r.slow {
		return
	}
	appLogger.WithRequest(ctx, r.logger).Warn("slow store query",
		zap.String("operation", op), zap.Duration("elapsed", elapsed))
}
