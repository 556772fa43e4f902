package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"todoList/internal/logger"
	"todoList/internal/models/task"
	rep "todoList/internal/repository"
)

const resourceTask = "task"

// TaskService holds the few business rules there are: titles must not be
// blank, new tasks get the default priority, updates replace every field.
// Store failures pass through untouched.
type TaskService struct {
	repo     TaskRepository
	repoType RepoType
}

func NewTaskService(repo TaskRepository, repoType RepoType) *TaskService {
	return &TaskService{
		repo:     repo,
		repoType: repoType,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *TaskService) RepoType() RepoType {
	return s.repoType
}

func (s *TaskService) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	return s.repo.List(ctx, filter)
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: task not found", zap.Int64("target_id", id))
			return nil, NewNotFound(resourceTask, id)
		}
		return nil, err
	}
	return t, nil
}

func (s *TaskService) CreateTask(ctx context.Context, title string, options ...task.TaskOption) (*task.Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	t := &task.Task{Title: title}
	t.Apply(options...)
	if t.Priority == nil {
		p := task.DefaultPriority
		t.Priority = &p
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	logger.Info("Service: task created",
		zap.Int64("task_id", t.ID),
		zap.String("repo", string(s.repoType)))
	return t, nil
}

// UpdateTask overwrites every mutable field. Fields without an option are
// reset to their zero value, never merged with the stored row.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, title string, options ...task.TaskOption) error {
	if err := validateTitle(title); err != nil {
		return err
	}

	t := &task.Task{ID: id, Title: title}
	t.Apply(options...)

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return err
	}
	if !updated {
		logger.Info("Service: task not found", zap.Int64("target_id", id))
		return NewNotFound(resourceTask, id)
	}
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		logger.Info("Service: task not found", zap.Int64("target_id", id))
		return NewNotFound(resourceTask, id)
	}
	return nil
}

func (s *TaskService) MarkAllCompleted(ctx context.Context) (int64, error) {
	count, err := s.repo.MarkAllCompleted(ctx)
	if err != nil {
		return 0, err
	}
	logger.Info("Service: tasks marked completed", zap.Int64("count", count))
	return count, nil
}

func (s *TaskService) DeleteAllCompleted(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteAllCompleted(ctx)
	if err != nil {
		return 0, err
	}
	logger.Info("Service: completed tasks deleted", zap.Int64("count", count))
	return count, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "title is required")
	}
	return nil
}
