package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"todoList/internal/logger"
	"todoList/internal/models/task"
	repo "todoList/internal/repository"
)

const slowQuery = 100 * time.Millisecond

const selectColumns = `SELECT
				id,
				title,
				description,
				completed,
				priority,
				category,
				due_date,
				created_at
				FROM tasks`

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

var DefaultPoolConfig = PoolConfig{
	MaxConns:        10,
	MinConns:        2,
	MaxConnIdleTime: 5 * time.Minute,
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: failed to parse connection string", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = poolCfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL",
		zap.Int32("max_conns", config.MaxConns),
		zap.Int32("min_conns", config.MinConns))
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL pool closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	start := time.Now()

	query := selectColumns
	args := []any{}
	if filter.Completed != nil {
		query += ` WHERE completed = $1`
		args = append(args, *filter.Completed)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to list tasks", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: failed to scan task", err)
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	warnIfSlow(start, "list")
	return tasks, nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()

	t, err := scanTask(s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get task", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("get task: %w", err)
	}

	warnIfSlow(start, "get")
	return t, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(title, description, completed, priority, category, due_date)
				VALUES ($1, $2, FALSE, $3, $4, $5)
				RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.Title,
		taskToCreate.Description,
		priorityArg(taskToCreate.Priority),
		taskToCreate.Category,
		taskToCreate.DueDate,
	).Scan(&taskToCreate.ID, &taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: failed to create task", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("create task: %w", err)
	}
	taskToCreate.Completed = false

	warnIfSlow(start, "create")
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) (bool, error) {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				completed = $3,
				priority = $4,
				category = $5,
				due_date = $6
			WHERE id = $7`

	tag, err := s.pool.Exec(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Completed,
		priorityArg(taskToUpdate.Priority),
		taskToUpdate.Category,
		taskToUpdate.DueDate,
		taskToUpdate.ID,
	)
	if err != nil {
		logger.Error("Repository: failed to update task", err, zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("update task: %w", err)
	}

	warnIfSlow(start, "update")
	return tag.RowsAffected() > 0, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) (bool, error) {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: failed to delete task", err, zap.Duration("ms", time.Since(start)))
		return false, fmt.Errorf("delete task: %w", err)
	}

	warnIfSlow(start, "delete")
	return tag.RowsAffected() > 0, nil
}

// MarkAllCompleted is unconditional: the count is every row in the table.
func (s *Storage) MarkAllCompleted(ctx context.Context) (int64, error) {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `UPDATE tasks SET completed = TRUE`)
	if err != nil {
		logger.Error("Repository: failed to mark tasks completed", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("mark all completed: %w", err)
	}

	warnIfSlow(start, "mark_all_completed")
	return tag.RowsAffected(), nil
}

func (s *Storage) DeleteAllCompleted(ctx context.Context) (int64, error) {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE completed = TRUE`)
	if err != nil {
		logger.Error("Repository: failed to delete completed tasks", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("delete completed: %w", err)
	}

	warnIfSlow(start, "delete_all_completed")
	return tag.RowsAffected(), nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	var priority *string

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&priority,
		&t.Category,
		&t.DueDate,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if priority != nil {
		p := task.Priority(*priority)
		t.Priority = &p
	}
	return t, nil
}

func priorityArg(p *task.Priority) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

func warnIfSlow(start time.Time, op string) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: slow query", zap.String("operation", op), zap.Duration("ms", elapsed))
	}
}
