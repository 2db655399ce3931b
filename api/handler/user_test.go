package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/domain"
	profileUC "github.com/taskmanager/backend/usecase/profile"
)

type mockUserRepo struct {
	getFn     func(p domain.Principal) (*domain.UserProfile, error)
	updateFn  func(p domain.Principal, name string) (*domain.UserProfile, error)
	disableFn func(p domain.Principal) (*domain.UserProfile, error)

	updateCalls  int
	disableCalls int
}

func (m *mockUserRepo) Get(_ context.Context, p domain.Principal) (*domain.UserProfile, error) {
	if m.getFn == nil {
		return &domain.UserProfile{ID: p.ID}, nil
	}
	return m.getFn(p)
}

func (m *mockUserRepo) UpdateName(_ context.Context, p domain.Principal, name string) (*domain.UserProfile, error) {
	m.updateCalls++
	if m.updateFn == nil {
		return &domain.UserProfile{ID: p.ID, Name: name, Enabled: true}, nil
	}
	return m.updateFn(p, name)
}

func (m *mockUserRepo) Disable(_ context.Context, p domain.Principal) (*domain.UserProfile, error) {
	m.disableCalls++
	if m.disableFn == nil {
		return &domain.UserProfile{ID: p.ID, Enabled: false}, nil
	}
	return m.disableFn(p)
}

func newUserHandler(repo *mockUserRepo) *UserHandler {
	return NewUserHandler(profileUC.New(repo, zap.NewNop()), nil, zap.NewNop())
}

func TestUserGetProfile_AccessDenied(t *testing.T) {
	h := newUserHandler(&mockUserRepo{})

	ctx := newRequestCtx(fasthttp.MethodGet, "/api/users/me", nil)
	h.GetProfile(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Equal(t, "Access denied", decodeBody(t, ctx)["error"])
}

func TestUserGetProfile_Success(t *testing.T) {
	repo := &mockUserRepo{
		getFn: func(p domain.Principal) (*domain.UserProfile, error) {
			return &domain.UserProfile{ID: p.ID, Name: "Ada", Enabled: true}, nil
		},
	}
	h := newUserHandler(repo)

	ctx := authedCtx(fasthttp.MethodGet, "/api/users/me", nil)
	h.GetProfile(ctx)

	body := decodeBody(t, ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "u1", data["id"])
	assert.Equal(t, "Ada", data["name"])
}

func TestUserGetProfile_RepositoryError(t *testing.T) {
	repo := &mockUserRepo{
		getFn: func(domain.Principal) (*domain.UserProfile, error) {
			return nil, domain.WrapError(http.StatusInternalServerError, "Error user does not exist", assert.AnError)
		},
	}
	h := newUserHandler(repo)

	ctx := authedCtx(fasthttp.MethodGet, "/api/users/me", nil)
	h.GetProfile(ctx)

	body := decodeBody(t, ctx)
	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, false, body["success"])
}

func TestUserUpdateProfile_NameRequired(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing", body: `{}`},
		{name: "blank", body: `{"name":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{}
			h := newUserHandler(repo)

			ctx := authedCtx(fasthttp.MethodPut, "/api/users/me", []byte(tt.body))
			h.UpdateProfile(ctx)

			assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
			assert.Equal(t, "Name is required", decodeBody(t, ctx)["error"])
			assert.Zero(t, repo.updateCalls)
		})
	}
}

func TestUserUpdateProfile_TrimsName(t *testing.T) {
	var gotName string
	repo := &mockUserRepo{
		updateFn: func(p domain.Principal, name string) (*domain.UserProfile, error) {
			gotName = name
			return &domain.UserProfile{ID: p.ID, Name: name, Enabled: true}, nil
		},
	}
	h := newUserHandler(repo)

	ctx := authedCtx(fasthttp.MethodPut, "/api/users/me", []byte(`{"name":"  Grace  "}`))
	h.UpdateProfile(ctx)

	body := decodeBody(t, ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "User updated successfully", body["message"])
	assert.Equal(t, "Grace", gotName)
}

func TestUserDeleteAccount_Success(t *testing.T) {
	repo := &mockUserRepo{}
	h := newUserHandler(repo)

	ctx := authedCtx(fasthttp.MethodDelete, "/api/users/me", nil)
	h.DeleteAccount(ctx)

	body := decodeBody(t, ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "User disabled successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["enabled"])
	assert.Equal(t, 1, repo.disableCalls)
}
