package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"todoList/internal/models/task"
	"todoList/internal/repository"
	"todoList/internal/service"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) (bool, error) {
	args := m.Called(ctx, t)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) MarkAllCompleted(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) DeleteAllCompleted(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

func strPtr(s string) *string { return &s }

func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
	}{
		{name: "healthy"},
		{name: "unhealthy", repoErr: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("HealthCheck", mock.Anything).Return(tt.repoErr)

			svc := service.NewTaskService(mockRepo, service.InMemoryType)
			err := svc.HealthCheck(context.Background())

			assert.Equal(t, tt.repoErr, err)
			assert.Equal(t, service.InMemoryType, svc.RepoType())
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_ListTasks(t *testing.T) {
	filter := task.CompletedFilter(true)
	tasks := []*task.Task{{ID: 2, Title: "b", Completed: true}}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("List", mock.Anything, filter).Return(tasks, nil)

	svc := service.NewTaskService(mockRepo, service.InMemoryType)
	got, err := svc.ListTasks(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, tasks, got)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_GetTask(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(*MockTaskRepository)
		wantNotFound bool
		wantErr      bool
	}{
		{
			name: "found",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetByID", mock.Anything, int64(1)).Return(&task.Task{ID: 1, Title: "a"}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetByID", mock.Anything, int64(1)).Return(nil, repository.ErrNotFound)
			},
			wantErr:      true,
			wantNotFound: true,
		},
		{
			name: "store failure passes through",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetByID", mock.Anything, int64(1)).Return(nil, errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo, service.InMemoryType)
			got, err := svc.GetTask(context.Background(), 1)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, tt.wantNotFound, service.IsNotFound(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), got.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	t.Run("defaults priority", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tk *task.Task) bool {
			return tk.Title == "Buy milk" &&
				tk.Description != nil && *tk.Description == "2 liters" &&
				tk.Priority != nil && *tk.Priority == task.PriorityMedium
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*task.Task).ID = 10
		}).Return(nil)

		svc := service.NewTaskService(mockRepo, service.InMemoryType)
		created, err := svc.CreateTask(context.Background(), "Buy milk", task.WithDescription(strPtr("2 liters")))

		require.NoError(t, err)
		assert.Equal(t, int64(10), created.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("keeps explicit priority", func(t *testing.T) {
		high := task.PriorityHigh
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(tk *task.Task) bool {
			return *tk.Priority == task.PriorityHigh
		})).Return(nil)

		svc := service.NewTaskService(mockRepo, service.InMemoryType)
		_, err := svc.CreateTask(context.Background(), "Ship it", task.WithPriority(&high))

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	for _, title := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("rejects blank title %q", title), func(t *testing.T) {
			mockRepo := new(MockTaskRepository)

			svc := service.NewTaskService(mockRepo, service.InMemoryType)
			_, err := svc.CreateTask(context.Background(), title)

			businessErr, ok := service.AsBusinessError(err)
			require.True(t, ok)
			assert.Equal(t, service.CodeValidation, businessErr.Code)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		svc := service.NewTaskService(mockRepo, service.InMemoryType)
		created, err := svc.CreateTask(context.Background(), "a")

		assert.EqualError(t, err, "disk full")
		assert.Nil(t, created)
	})
}

func TestTaskService_UpdateTask(t *testing.T) {
	t.Run("replaces every field", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(tk *task.Task) bool {
			return tk.ID == 3 &&
				tk.Title == "Buy milk" &&
				tk.Completed &&
				tk.Description == nil &&
				tk.Priority == nil &&
				tk.Category == nil &&
				tk.DueDate == nil
		})).Return(true, nil)

		svc := service.NewTaskService(mockRepo, service.InMemoryType)
		err := svc.UpdateTask(context.Background(), 3, "Buy milk", task.WithCompleted(true))

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing row", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(false, nil)

		svc := service.NewTaskService(mockRepo, service.InMemoryType)
		err := svc.UpdateTask(context.Background(), 3, "Buy milk")

		assert.True(t, service.IsNotFound(err))
	})

	t.Run("blank title", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)

		svc := service.NewTaskService(mockRepo, service.InMemoryType)
		err := svc.UpdateTask(context.Background(), 3, " ")

		_, ok := service.AsBusinessError(err)
		assert.True(t, ok)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, mock.Anything).Return(false, errors.New("timeout"))

		svc := service.NewTaskService(mockRepo, service.InMemoryType)
		err := svc.UpdateTask(context.Background(), 3, "a")

		assert.EqualError(t, err, "timeout")
		assert.False(t, service.IsNotFound(err))
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	tests := []struct {
		name         string
		deleted      bool
		repoErr      error
		wantNotFound bool
	}{
		{name: "deleted", deleted: true},
		{name: "missing", deleted: false, wantNotFound: true},
		{name: "store failure", repoErr: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Delete", mock.Anything, int64(5)).Return(tt.deleted, tt.repoErr)

			svc := service.NewTaskService(mockRepo, service.InMemoryType)
			err := svc.DeleteTask(context.Background(), 5)

			switch {
			case tt.repoErr != nil:
				assert.ErrorIs(t, err, tt.repoErr)
			case tt.wantNotFound:
				assert.True(t, service.IsNotFound(err))
			default:
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_BulkOperations(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("MarkAllCompleted", mock.Anything).Return(int64(4), nil).Once()
	mockRepo.On("DeleteAllCompleted", mock.Anything).Return(int64(4), nil).Once()

	svc := service.NewTaskService(mockRepo, service.InMemoryType)

	marked, err := svc.MarkAllCompleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), marked)

	deleted, err := svc.DeleteAllCompleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	mockRepo.AssertExpectations(t)
}

func TestTaskService_BulkOperationsFail(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("MarkAllCompleted", mock.Anything).Return(int64(0), errors.New("locked"))
	mockRepo.On("DeleteAllCompleted", mock.Anything).Return(int64(0), errors.New("locked"))

	svc := service.NewTaskService(mockRepo, service.InMemoryType)

	_, err := svc.MarkAllCompleted(context.Background())
	assert.EqualError(t, err, "locked")
	_, err = svc.DeleteAllCompleted(context.Background())
	assert.EqualError(t, err, "locked")
}

func TestBusinessError(t *testing.T) {
	err := service.NewNotFound("task", 9)
	assert.Equal(t, "[NOT_FOUND] task 9 not found", err.Error())
	assert.Equal(t, int64(9), err.Details["id"])

	wrapped := errors.Join(errors.New("context"), err)
	assert.True(t, service.IsNotFound(wrapped))

	validation := service.NewValidationError("title", "title is required")
	assert.Equal(t, "title", validation.Details["field"])
	assert.False(t, service.IsNotFound(validation))
}
