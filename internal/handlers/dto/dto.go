package dto

import (
	"time"

	"todoList/internal/models/task"
)

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	DueDate     *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskRequest replaces the whole task: an absent field is written as
// null (or false for completed).
type UpdateTaskRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	DueDate     *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    *string   `json:"priority"`
	Category    *string   `json:"category"`
	DueDate     *string   `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (r CreateTaskRequest) Options() ([]task.TaskOption, error) {
	return optionalFields(r.Description, r.Priority, r.Category, r.DueDate)
}

func (r UpdateTaskRequest) Options() ([]task.TaskOption, error) {
	opts, err := optionalFields(r.Description, r.Priority, r.Category, r.DueDate)
	if err != nil {
		return nil, err
	}
	return append(opts, task.WithCompleted(r.Completed)), nil
}

func optionalFields(description, priority, category, dueDate *string) ([]task.TaskOption, error) {
	opts := []task.TaskOption{
		task.WithDescription(description),
		task.WithCategory(category),
	}

	if priority != nil {
		p, err := task.ParsePriority(*priority)
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.WithPriority(&p))
	}

	if dueDate != nil {
		due, err := task.ParseDate(*dueDate)
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.WithDueDate(&due))
	}

	return opts, nil
}

func FromTask(t *task.Task) TaskResponse {
	var priority *string
	if t.Priority != nil {
		p := t.Priority.String()
		priority = &p
	}

	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    priority,
		Category:    t.Category,
		DueDate:     task.FormatDate(t.DueDate),
		CreatedAt:   t.CreatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

// ToTask converts a response back into the model, used by API consumers.
func (r TaskResponse) ToTask() (*task.Task, error) {
	t := &task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Category:    r.Category,
		CreatedAt:   r.CreatedAt,
	}

	if r.Priority != nil {
		p, err := task.ParsePriority(*r.Priority)
		if err != nil {
			return nil, err
		}
		t.Priority = &p
	}

	if r.DueDate != nil {
		due, err := task.ParseDate(*r.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = &due
	}

	return t, nil
}
