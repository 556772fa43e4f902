package inmemory

import (
	"context"
	"sync"
	"time"

	"todoList/internal/logger"
	"todoList/internal/models/task"
	repo "todoList/internal/repository"
)

// TaskStorage keeps tasks in process memory. Ids are sequential like a
// SERIAL column and never reused.
type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	ids     []int64
	nextID  int64
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		nextID:  1,
		now:     time.Now,
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: in-memory storage is healthy")
	return nil
}

func (s *TaskStorage) Close() {}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.ID = s.nextID
	taskToCreate.Completed = false
	taskToCreate.CreatedAt = s.now().UTC()
	s.nextID++

	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToUpdate.ID]
	if !ok {
		return false, nil
	}

	updated := taskToUpdate.Clone()
	updated.CreatedAt = existing.CreatedAt
	s.storage[updated.ID] = updated
	taskToUpdate.CreatedAt = existing.CreatedAt

	return true, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

func (s *TaskStorage) Delete(ctx context.Context, id int64) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return false, nil
	}
	s.remove(id)
	return true, nil
}

// List walks ids from newest to oldest, which is also CreatedAt descending.
func (s *TaskStorage) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for i := len(s.ids) - 1; i >= 0; i-- {
		taskToGet := s.storage[s.ids[i]]
		if !filter.Match(taskToGet) {
			continue
		}
		res = append(res, taskToGet.Clone())
	}

	return res, nil
}

// MarkAllCompleted touches every row, so the count is the table size.
func (s *TaskStorage) MarkAllCompleted(ctx context.Context) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, t := range s.storage {
		t.Completed = true
	}
	return int64(len(s.storage)), nil
}

func (s *TaskStorage) DeleteAllCompleted(ctx context.Context) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var removed int64
	for _, id := range append([]int64(nil), s.ids...) {
		if s.storage[id].Completed {
			s.remove(id)
			removed++
		}
	}
	return removed, nil
}

// remove expects the write lock to be held.
func (s *TaskStorage) remove(id int64) {
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
}
