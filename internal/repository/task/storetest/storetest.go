// Package storetest holds the behaviour every task store must share.
// Each backend runs it from its own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoList/internal/models/task"
	repo "todoList/internal/repository"
)

type Store interface {
	List(context.Context, task.Filter) ([]*task.Task, error)
	GetByID(context.Context, int64) (*task.Task, error)
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) (bool, error)
	Delete(context.Context, int64) (bool, error)
	MarkAllCompleted(context.Context) (int64, error)
	DeleteAllCompleted(context.Context) (int64, error)
}

// Run executes every case against a fresh, empty store from newStore.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s Store)
	}{
		{"create and get", testCreateAndGet},
		{"optional fields", testOptionalFields},
		{"get missing", testGetMissing},
		{"list order", testListOrder},
		{"list filter", testListFilter},
		{"update replaces", testUpdateReplaces},
		{"update missing", testUpdateMissing},
		{"delete", testDelete},
		{"mark all completed", testMarkAllCompleted},
		{"delete all completed", testDeleteAllCompleted},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			c.fn(t, newStore(t))
		})
	}
}

func strPtr(s string) *string { return &s }

func create(t *testing.T, s Store, title string, opts ...task.TaskOption) *task.Task {
	t.Helper()
	tk := &task.Task{Title: title}
	tk.Apply(opts...)
	require.NoError(t, s.Create(context.Background(), tk))
	return tk
}

func ids(tasks []*task.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, tk := range tasks {
		out[i] = tk.ID
	}
	return out
}

func testCreateAndGet(t *testing.T, s Store) {
	ctx := context.Background()

	tk := &task.Task{Title: "Buy milk", Description: strPtr("2 liters"), Completed: true}
	require.NoError(t, s.Create(ctx, tk))

	assert.Positive(t, tk.ID)
	assert.False(t, tk.CreatedAt.IsZero())
	assert.False(t, tk.Completed, "new tasks start incomplete")

	got, err := s.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.ID, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "2 liters", *got.Description)
	assert.False(t, got.Completed)
	assert.WithinDuration(t, tk.CreatedAt, got.CreatedAt, time.Millisecond)

	other := create(t, s, "Walk the dog")
	assert.NotEqual(t, tk.ID, other.ID)
	assert.Nil(t, other.Description)
}

func testOptionalFields(t *testing.T, s Store) {
	ctx := context.Background()
	due, err := task.ParseDate("2026-05-01")
	require.NoError(t, err)
	high := task.PriorityHigh

	tk := create(t, s, "File taxes",
		task.WithPriority(&high),
		task.WithCategory(strPtr("finance")),
		task.WithDueDate(&due))

	got, err := s.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Priority)
	assert.Equal(t, task.PriorityHigh, *got.Priority)
	require.NotNil(t, got.Category)
	assert.Equal(t, "finance", *got.Category)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-05-01", got.DueDate.Format(task.DateLayout))

	plain := create(t, s, "No extras")
	got, err = s.GetByID(ctx, plain.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Priority)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.DueDate)
}

func testGetMissing(t *testing.T, s Store) {
	_, err := s.GetByID(context.Background(), 424242)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func testListOrder(t *testing.T, s Store) {
	ctx := context.Background()

	empty, err := s.List(ctx, task.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first := create(t, s, "first")
	second := create(t, s, "second")
	third := create(t, s, "third")

	tasks, err := s.List(ctx, task.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, ids(tasks))

	for i := 1; i < len(tasks); i++ {
		assert.False(t, tasks[i].CreatedAt.After(tasks[i-1].CreatedAt), "list must be newest first")
	}
}

func testListFilter(t *testing.T, s Store) {
	ctx := context.Background()

	a := create(t, s, "a")
	b := create(t, s, "b")
	c := create(t, s, "c")

	b.Completed = true
	ok, err := s.Update(ctx, b)
	require.NoError(t, err)
	require.True(t, ok)

	completed, err := s.List(ctx, task.CompletedFilter(true))
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids(completed))

	pending, err := s.List(ctx, task.CompletedFilter(false))
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, a.ID}, ids(pending))

	all, err := s.List(ctx, task.Filter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, ids(all), append(ids(completed), ids(pending)...))
}

func testUpdateReplaces(t *testing.T, s Store) {
	ctx := context.Background()
	low := task.PriorityLow

	tk := create(t, s, "Buy milk",
		task.WithDescription(strPtr("2 liters")),
		task.WithPriority(&low),
		task.WithCategory(strPtr("home")))

	stored, err := s.GetByID(ctx, tk.ID)
	require.NoError(t, err)

	replacement := &task.Task{ID: tk.ID, Title: "Buy oat milk", Completed: true}
	ok, err := s.Update(ctx, replacement)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.True(t, got.Completed)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.Priority)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.DueDate)
	assert.WithinDuration(t, stored.CreatedAt, got.CreatedAt, time.Millisecond, "createdAt never changes")
}

func testUpdateMissing(t *testing.T, s Store) {
	ctx := context.Background()
	tk := create(t, s, "keep me")

	ok, err := s.Update(ctx, &task.Task{ID: tk.ID + 1000, Title: "ghost", Completed: true})
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := s.List(ctx, task.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "keep me", all[0].Title)
	assert.False(t, all[0].Completed)
}

func testDelete(t *testing.T, s Store) {
	ctx := context.Background()
	a := create(t, s, "a")
	b := create(t, s, "b")

	ok, err := s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second delete finds nothing")

	_, err = s.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	all, err := s.List(ctx, task.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids(all))
}

func testMarkAllCompleted(t *testing.T, s Store) {
	ctx := context.Background()

	count, err := s.MarkAllCompleted(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	create(t, s, "a")
	b := create(t, s, "b")
	create(t, s, "c")
	b.Completed = true
	_, err = s.Update(ctx, b)
	require.NoError(t, err)

	count, err = s.MarkAllCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "every row is touched")

	pending, err := s.List(ctx, task.CompletedFilter(false))
	require.NoError(t, err)
	assert.Empty(t, pending)

	count, err = s.MarkAllCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func testDeleteAllCompleted(t *testing.T, s Store) {
	ctx := context.Background()

	a := create(t, s, "a")
	b := create(t, s, "b")
	c := create(t, s, "c")
	for _, tk := range []*task.Task{a, c} {
		tk.Completed = true
		_, err := s.Update(ctx, tk)
		require.NoError(t, err)
	}

	count, err := s.DeleteAllCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	completed, err := s.List(ctx, task.CompletedFilter(true))
	require.NoError(t, err)
	assert.Empty(t, completed)

	all, err := s.List(ctx, task.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids(all))

	count, err = s.DeleteAllCompleted(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
