package router

import (
	"encoding/json"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskmanager/backend/api/handler"
	"github.com/taskmanager/backend/api/transport"
	"github.com/taskmanager/backend/internal/middleware"
	"github.com/taskmanager/backend/internal/validate"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	User   *apiHandler.UserHandler
	Auth   *apiHandler.AuthHandler
	Health *apiHandler.HealthHandler
}

// New assembles the route table. Authenticated routes run behind the
// identity verifier; create-task additionally passes the schema validator.
func New(handlers Handlers, auth middleware.Middleware, v *validator.Validate) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/tasks", auth(handlers.Task.List))
	r.POST("/api/tasks", auth(validate.Body[transport.CreateTaskRequest](v, handlers.Task.Create)))
	r.GET("/api/tasks/{id}", auth(handlers.Task.GetByID))
	r.PUT("/api/tasks/{id}", auth(handlers.Task.Update))
	r.PATCH("/api/tasks/{id}/toggle", auth(handlers.Task.Toggle))
	r.DELETE("/api/tasks/{id}", auth(handlers.Task.Delete))

	r.GET("/api/users/me", auth(handlers.User.GetProfile))
	r.PUT("/api/users/me", auth(handlers.User.UpdateProfile))
	r.DELETE("/api/users/me", auth(handlers.User.DeleteAccount))

	r.POST("/api/auth/forgot-password", handlers.Auth.ForgotPassword)
	r.POST("/api/auth/reset-password", auth(handlers.Auth.ResetPassword))

	r.NotFound = routeNotFound
	r.MethodNotAllowed = routeNotFound
	r.HandleMethodNotAllowed = true

	return r
}

// routeNotFound keeps unmatched requests inside the uniform envelope.
func routeNotFound(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusNotFound)
	body, _ := json.Marshal(transport.NewFailure("Route not found", "ERROR"))
	ctx.SetBody(body)
}
