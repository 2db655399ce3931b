package repository

import (
	"context"

	"github.com/taskmanager/backend/domain"
)

// ListOptions is the normalized pagination/sort/filter input for task
// listing. Values arrive already defaulted and clamped by the controller.
type ListOptions struct {
	Page      int
	PageSize  int
	Status    string // all | pending | completed
	SortBy    string // createdAt | updatedAt | title
	SortOrder string // asc | desc
}

// TaskPage is one page of tasks with the exact total match count.
type TaskPage struct {
	Tasks []domain.Task
	Count int
}

// TaskRepository provides owner-scoped task persistence. Every operation
// runs under the principal's delegated credential and is additionally
// filtered by owner id. GetByID and Update return (nil, nil) when no owned
// row matches.
type TaskRepository interface {
	List(ctx context.Context, p domain.Principal, opts ListOptions) (*TaskPage, error)
	GetByID(ctx context.Context, p domain.Principal, id int) (*domain.Task, error)
	Create(ctx context.Context, p domain.Principal, draft domain.TaskDraft) (*domain.Task, error)
	Update(ctx context.Context, p domain.Principal, id int, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, p domain.Principal, id int) error
}
