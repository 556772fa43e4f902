package tui

import (
	"fmt"

	"todoList/internal/models/task"
)

type tasksMsg struct {
	filter Filter
	tasks  []*task.Task
}

// mutatedMsg reports a successful write. Every write is followed by a refetch.
type mutatedMsg struct {
	action string
	count  int64
}

type createdMsg struct {
	task *task.Task
}

type savedMsg struct {
	id int64
}

type ErrorMsg struct {
	action string
	err    error
}

func errorMsg(action string, format string, args ...any) ErrorMsg {
	return ErrorMsg{
		action: action,
		err:    fmt.Errorf(format, args...),
	}
}
