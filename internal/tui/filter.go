package tui

import "todoList/internal/models/task"

type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterCompleted
)

var filterNames = [...]string{"All", "Pending", "Completed"}

func (f Filter) String() string {
	return filterNames[f]
}

func (f Filter) Next() Filter {
	return (f + 1) % Filter(len(filterNames))
}

// completed is the value of the completed query parameter, nil for all.
func (f Filter) completed() *bool {
	switch f {
	case FilterPending:
		v := false
		return &v
	case FilterCompleted:
		v := true
		return &v
	}
	return nil
}

// Apply re-filters a list locally. The server already filtered it.
func (f Filter) Apply(tasks []*task.Task) []*task.Task {
	tf := task.Filter{Completed: f.completed()}
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if tf.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
