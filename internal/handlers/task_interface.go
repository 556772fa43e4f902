package handlers

import (
	"context"

	"todoList/internal/models/task"
)

type Service interface {
	HealthCheck(context.Context) error
	ListTasks(context.Context, task.Filter) ([]*task.Task, error)
	GetTask(context.Context, int64) (*task.Task, error)
	CreateTask(ctx context.Context, title string, options ...task.TaskOption) (*task.Task, error)
	UpdateTask(ctx context.Context, id int64, title string, options ...task.TaskOption) error
	DeleteTask(context.Context, int64) error
	MarkAllCompleted(context.Context) (int64, error)
	DeleteAllCompleted(context.Context) (int64, error)
}
