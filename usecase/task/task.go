package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskmanager/backend/domain"
	"github.com/taskmanager/backend/repository"
)

// UseCase orchestrates owner-scoped task operations.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{tasks: tasks, logger: logger}
}

func (uc *UseCase) List(ctx context.Context, p domain.Principal, opts repository.ListOptions) (*repository.TaskPage, error) {
	return uc.tasks.List(ctx, p, opts)
}

func (uc *UseCase) Get(ctx context.Context, p domain.Principal, id int) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, p, id)
}

func (uc *UseCase) Create(ctx context.Context, p domain.Principal, draft domain.TaskDraft) (*domain.Task, error) {
	return uc.tasks.Create(ctx, p, draft)
}

func (uc *UseCase) Update(ctx context.Context, p domain.Principal, id int, patch domain.TaskPatch) (*domain.Task, error) {
	return uc.tasks.Update(ctx, p, id, patch)
}

// Toggle reads the owned task, flips its completion flag and writes it
// back. The two steps are not serialized against concurrent writers; the
// store's last write wins.
func (uc *UseCase) Toggle(ctx context.Context, p domain.Principal, id int) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	completed := !task.Completed
	return uc.tasks.Update(ctx, p, id, domain.TaskPatch{Completed: &completed})
}

// Delete removes the owned task. The store does not report whether a row
// existed, so delete of an absent id still succeeds.
func (uc *UseCase) Delete(ctx context.Context, p domain.Principal, id int) error {
	return uc.tasks.Delete(ctx, p, id)
}
