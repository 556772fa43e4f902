// Package sqlite stores tasks in an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"todoList/internal/logger"
	"todoList/internal/migrations"
	"todoList/internal/models/task"
	repo "todoList/internal/repository"
)

const selectColumns = `SELECT id, title, description, completed, priority, category, due_date, created_at FROM tasks`

type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// OpenDB opens (creating if needed) the database file without touching the schema.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Open opens the database file and migrates it.
func Open(ctx context.Context, path string) (*Storage, error) {
	db, err := OpenDB(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db, migrations.SQLite); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Repository: opened SQLite database", zap.String("path", path))
	return &Storage{db: db, now: time.Now}, nil
}

func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		logger.Error("Repository: failed to close SQLite database", err)
		return
	}
	logger.Info("Repository: SQLite database closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	query := selectColumns
	args := []any{}
	if filter.Completed != nil {
		query += ` WHERE completed = ?`
		args = append(args, *filter.Completed)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to list tasks", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get task", err)
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	createdAt := s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, completed, priority, category, due_date, created_at)
		VALUES (?, ?, 0, ?, ?, ?, ?)`,
		taskToCreate.Title,
		taskToCreate.Description,
		priorityArg(taskToCreate.Priority),
		taskToCreate.Category,
		task.FormatDate(taskToCreate.DueDate),
		createdAt.UnixNano(),
	)
	if err != nil {
		logger.Error("Repository: failed to create task", err)
		return fmt.Errorf("create task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	taskToCreate.ID = id
	taskToCreate.Completed = false
	taskToCreate.CreatedAt = createdAt
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks
		SET title = ?, description = ?, completed = ?, priority = ?, category = ?, due_date = ?
		WHERE id = ?`,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Completed,
		priorityArg(taskToUpdate.Priority),
		taskToUpdate.Category,
		task.FormatDate(taskToUpdate.DueDate),
		taskToUpdate.ID,
	)
	if err != nil {
		logger.Error("Repository: failed to update task", err)
		return false, fmt.Errorf("update task: %w", err)
	}
	return affected(res, "update task")
}

func (s *Storage) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		logger.Error("Repository: failed to delete task", err)
		return false, fmt.Errorf("delete task: %w", err)
	}
	return affected(res, "delete task")
}

func (s *Storage) MarkAllCompleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET completed = 1`)
	if err != nil {
		logger.Error("Repository: failed to mark tasks completed", err)
		return 0, fmt.Errorf("mark all completed: %w", err)
	}
	return res.RowsAffected()
}

func (s *Storage) DeleteAllCompleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE completed = 1`)
	if err != nil {
		logger.Error("Repository: failed to delete completed tasks", err)
		return 0, fmt.Errorf("delete completed: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t           task.Task
		description sql.NullString
		priority    sql.NullString
		category    sql.NullString
		dueDate     sql.NullString
		createdAt   int64
	)

	if err := row.Scan(&t.ID, &t.Title, &description, &t.Completed, &priority, &category, &dueDate, &createdAt); err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if priority.Valid {
		p := task.Priority(priority.String)
		t.Priority = &p
	}
	if category.Valid {
		t.Category = &category.String
	}
	if dueDate.Valid {
		due, err := task.ParseDate(dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("due_date %q: %w", dueDate.String, err)
		}
		t.DueDate = &due
	}
	t.CreatedAt = time.Unix(0, createdAt).UTC()

	return &t, nil
}

func priorityArg(p *task.Priority) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func affected(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
