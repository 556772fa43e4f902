package service

import (
	"context"

	"todoList/internal/models/task"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	List(context.Context, task.Filter) ([]*task.Task, error)
	GetByID(context.Context, int64) (*task.Task, error)
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) (bool, error)
	Delete(context.Context, int64) (bool, error)
	MarkAllCompleted(context.Context) (int64, error)
	DeleteAllCompleted(context.Context) (int64, error)
}

type RepoType string

const (
	PostgresType RepoType = "postgres"
	SQLiteType   RepoType = "sqlite"
	InMemoryType RepoType = "inmemory"
)
