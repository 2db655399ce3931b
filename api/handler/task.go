package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmanager/backend/api/transport"
	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/internal/validate"
	"github.com/taskmanager/backend/pkg/httpcontext"
	"github.com/taskmanager/backend/repository"
	taskUC "github.com/taskmanager/backend/usecase/task"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// List returns one page of the caller's tasks. Query-string input is
// normalized here: out-of-range or malformed values fall back to defaults
// rather than failing the request.
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}

	opts := resolveListOptions(ctx.QueryArgs())

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page, err := h.uc.List(stdCtx, p, opts)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(page.Tasks, page.Count, opts.Page, opts.PageSize))
}

// GetByID returns a single owned task.
func (h *TaskHandler) GetByID(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, p, id)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	if task == nil {
		h.fieldError(ctx, http.StatusNotFound, "Task not found")
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewItem(task, ""))
}

// Create stores a new task for the caller. The validator middleware has
// already schema-checked the payload; the non-blank title rule is enforced
// here so whitespace-only titles never reach persistence.
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}

	req, ok := validate.FromRequest[transport.CreateTaskRequest](ctx)
	if !ok {
		h.fieldError(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		h.fieldError(ctx, http.StatusBadRequest, "Title is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Create(stdCtx, p, domain.TaskDraft{
		Title:       title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.fail(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewItem(task, "Task created successfully"))
}

// Update applies a partial update built from only the fields present in
// the body.
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var req transport.UpdateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.fieldError(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := buildPatch(req)
	if patch.IsEmpty() {
		h.fieldError(ctx, http.StatusBadRequest, "No data to update")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Update(stdCtx, p, id, patch)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	if task == nil {
		h.fieldError(ctx, http.StatusNotFound, "Task not found")
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewItem(task, "Task updated successfully"))
}

// Toggle flips the completion flag of an owned task.
func (h *TaskHandler) Toggle(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Toggle(stdCtx, p, id)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	if task == nil {
		h.fieldError(ctx, http.StatusNotFound, "Task not found")
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewItem(task, "Task updated successfully"))
}

// Delete removes an owned task. Success does not distinguish "deleted"
// from "was already absent".
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, p, id); err != nil {
		h.fail(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewMessage("Task deleted successfully"))
}

func (h *TaskHandler) principal(ctx *fasthttp.RequestCtx) (domain.Principal, bool) {
	p, ok := httpcontext.PrincipalFrom(ctx)
	if !ok {
		h.fieldError(ctx, http.StatusUnauthorized, "Unauthorized")
	}
	return p, ok
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (int, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.fieldError(ctx, http.StatusBadRequest, "Invalid task ID")
		return 0, false
	}
	return id, true
}

func buildPatch(req transport.UpdateTaskRequest) domain.TaskPatch {
	var patch domain.TaskPatch
	if req.Title != nil {
		if title := strings.TrimSpace(*req.Title); title != "" {
			patch.Title = &title
		}
	}
	if req.Description != nil {
		if desc := strings.TrimSpace(*req.Description); desc != "" {
			patch.Description = &desc
		} else {
			patch.ClearDesc = true
		}
	}
	patch.Completed = req.Completed
	return patch
}

// resolveListOptions applies the pagination/sort/filter normalization
// policy: page>=1 else 1, pageSize>=1 else 20 capped at 100, and exact
// matches only for status/sortBy/sortOrder overrides.
func resolveListOptions(args *fasthttp.Args) repository.ListOptions {
	opts := repository.ListOptions{
		Page:      parsePositive(string(args.Peek("page")), defaultPage),
		PageSize:  parsePositive(string(args.Peek("pageSize")), defaultPageSize),
		Status:    "all",
		SortBy:    "createdAt",
		SortOrder: "desc",
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}

	switch status := string(args.Peek("status")); status {
	case "pending", "completed":
		opts.Status = status
	}
	switch sortBy := string(args.Peek("sortBy")); sortBy {
	case "title", "updatedAt":
		opts.SortBy = sortBy
	}
	if string(args.Peek("sortOrder")) == "asc" {
		opts.SortOrder = "asc"
	}
	return opts
}

func parsePositive(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
