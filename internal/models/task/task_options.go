package task

import (
	"time"
)

type TaskOption func(*Task)

// Apply runs the options in order, skipping nil ones.
func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

// WithDescription sets the description; nil clears it.
func WithDescription(description *string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithPriority(priority *Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithCategory(category *string) TaskOption {
	return func(task *Task) {
		task.Category = category
	}
}

func WithDueDate(dueDate *time.Time) TaskOption {
	if dueDate == nil {
		return func(task *Task) {
			task.DueDate = nil
		}
	}
	day := dueDate.UTC().Truncate(24 * time.Hour)
	return func(task *Task) {
		task.DueDate = &day
	}
}

func WithCompleted(completed bool) TaskOption {
	return func(task *Task) {
		task.Completed = completed
	}
}
