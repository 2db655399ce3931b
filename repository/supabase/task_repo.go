package supabase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/internal/store"
	appLogger "github.com/taskmanager/backend/pkg/logger"
	"github.com/taskmanager/backend/repository"
)

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

type taskRepository struct {
	client *store.Client
	logger *zap.Logger
	slow   time.Duration
}

// NewTaskRepository returns a hosted-store implementation of TaskRepository.
// Calls exceeding slowThreshold are logged with their parameters.
func NewTaskRepository(client *store.Client, logger *zap.Logger, slowThreshold time.Duration) repository.TaskRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return &taskRepository{client: client, logger: logger, slow: slowThreshold}
}

func (r *taskRepository) List(ctx context.Context, p domain.Principal, opts repository.ListOptions) (*repository.TaskPage, error) {
	defer r.observe(ctx, "list tasks", time.Now(),
		zap.Int("page", opts.Page),
		zap.Int("page_size", opts.PageSize),
		zap.String("status", opts.Status),
		zap.String("sort_by", opts.SortBy),
		zap.String("sort_order", opts.SortOrder),
	)

	from := (opts.Page - 1) * opts.PageSize
	to := from + opts.PageSize - 1

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}

	query := r.client.WithToken(p.AccessToken).
		From("tasks").
		Eq("owner_id", p.ID).
		Order(column, opts.SortOrder == "asc").
		Range(from, to).
		ExactCount()

	switch opts.Status {
	case "pending":
		query.Eq("completed", false)
	case "completed":
		query.Eq("completed", true)
	}

	var tasks []domain.Task
	total, err := query.Select(ctx, &tasks)
	if err != nil {
		return nil, domain.WrapError(http.StatusInternalServerError, "Error fetching tasks", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	if total < 0 {
		total = len(tasks)
	}
	return &repository.TaskPage{Tasks: tasks, Count: total}, nil
}

func (r *taskRepository) GetByID(ctx context.Context, p domain.Principal, id int) (*domain.Task, error) {
	defer r.observe(ctx, "get task", time.Now(), zap.Int("task_id", id))

	var task domain.Task
	_, err := r.client.WithToken(p.AccessToken).
		From("tasks").
		Eq("id", id).
		Eq("owner_id", p.ID).
		Single().
		Select(ctx, &task)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, domain.WrapError(http.StatusInternalServerError, "Error fetching task", err)
	}
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, p domain.Principal, draft domain.TaskDraft) (*domain.Task, error) {
	defer r.observe(ctx, "create task", time.Now())

	row := map[string]interface{}{
		"title":    strings.TrimSpace(draft.Title),
		"owner_id": p.ID,
	}
	if draft.Description != nil {
		if desc := strings.TrimSpace(*draft.Description); desc != "" {
			row["description"] = desc
		}
	}
	if draft.Completed != nil {
		row["completed"] = *draft.Completed
	}

	var task domain.Task
	err := r.client.WithToken(p.AccessToken).
		From("tasks").
		Single().
		Insert(ctx, row, &task)
	if err != nil {
		return nil, domain.WrapError(http.StatusInternalServerError, "Error creating task", err)
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, p domain.Principal, id int, patch domain.TaskPatch) (*domain.Task, error) {
	defer r.observe(ctx, "update task", time.Now(), zap.Int("task_id", id))

	var task domain.Task
	err := r.client.WithToken(p.AccessToken).
		From("tasks").
		Eq("id", id).
		Eq("owner_id", p.ID).
		Single().
		Update(ctx, patch.Fields(), &task)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, domain.WrapError(http.StatusInternalServerError, "Error updating task", err)
	}
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, p domain.Principal, id int) error {
	defer r.observe(ctx, "delete task", time.Now(), zap.Int("task_id", id))

	err := r.client.WithToken(p.AccessToken).
		From("tasks").
		Eq("id", id).
		Eq("owner_id", p.ID).
		Delete(ctx)
	if err != nil {
		return domain.WrapError(http.StatusInternalServerError, "Error deleting task", err)
	}
	return nil
}

// observe logs a warning when a store call exceeds the slow-query
// threshold. The call itself never fails because of slowness.
func (r *taskRepository) observe(ctx context.Context, op string, start time.Time, fields ...zap.Field) {
	elapsed := time.Since(start)
	if elapsed < r.slow {
		return
	}
	fields = append(fields, zap.String("operation", op), zap.Duration("elapsed", elapsed))
	appLogger.WithRequest(ctx, r.logger).Warn("slow store query", fields...)
}
