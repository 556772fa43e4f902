// Package tui is the terminal client of the todo list API.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todoList/internal/models/task"
)

// TaskAPI is the part of client.Client the UI needs.
type TaskAPI interface {
	List(ctx context.Context, completed *bool) ([]*task.Task, error)
	Create(ctx context.Context, t *task.Task) (*task.Task, error)
	Update(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, id int64) error
	MarkAllCompleted(ctx context.Context) (int64, error)
	DeleteCompleted(ctx context.Context) (int64, error)
}

type Logger interface {
	Debug(interface{}, ...interface{})
	Info(interface{}, ...interface{})
	Warn(interface{}, ...interface{})
	Error(interface{}, ...interface{})
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// form is a title plus optional description. Used for both add and edit.
type form struct {
	title       textinput.Model
	description textinput.Model
}

func newForm() form {
	return form{
		title:       newInput("Task title", 280),
		description: newInput("Description (optional)", 1000),
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (f *form) focusTitle() {
	f.description.Blur()
	f.title.Focus()
}

func (f *form) switchFocus() {
	if f.title.Focused() {
		f.title.Blur()
		f.description.Focus()
		return
	}
	f.focusTitle()
}

func (f *form) reset() {
	f.title.Reset()
	f.description.Reset()
	f.focusTitle()
}

func (f form) values() (string, *string) {
	title := f.title.Value()
	desc := f.description.Value()
	if desc == "" {
		return title, nil
	}
	return title, &desc
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var tCmd, dCmd tea.Cmd
	f.title, tCmd = f.title.Update(msg)
	f.description, dCmd = f.description.Update(msg)
	return f, tea.Batch(tCmd, dCmd)
}

type Model struct {
	// supplied
	l   Logger
	api TaskAPI

	// children
	add  form
	edit form
	help help.Model

	// state
	mode      mode
	filter    Filter
	tasks     []*task.Task
	cursor    int
	editingID int64
	loading   bool
	quitting  bool

	cmdTimeout time.Duration
}

func New(api TaskAPI, l Logger, cmdTimeout time.Duration) Model {
	return Model{
		l:          l,
		api:        api,
		add:        newForm(),
		edit:       newForm(),
		help:       help.New(),
		loading:    true,
		cmdTimeout: cmdTimeout,
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tasksMsg:
		// a refetch for a filter the user already left is stale
		if msg.filter != m.filter {
			return m, nil
		}
		m.loading = false
		m.tasks = m.filter.Apply(msg.tasks)
		m.clampCursor()
		if m.mode == modeEdit && m.indexOf(m.editingID) < 0 {
			m = m.cancelEdit()
		}
		return m, nil

	case createdMsg:
		m.l.Info("task created", "id", msg.task.ID)
		m.add.reset()
		m.mode = modeList
		return m.refetch()

	case savedMsg:
		m.l.Info("task updated", "id", msg.id)
		if m.mode == modeEdit && m.editingID == msg.id {
			m = m.cancelEdit()
		}
		return m.refetch()

	case mutatedMsg:
		m.l.Info("tasks changed", "action", msg.action, "count", msg.count)
		return m.refetch()

	case ErrorMsg:
		m.loading = false
		m.l.Error("request failed", "action", msg.action, "error", msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Filter):
		return m.setFilter(m.filter.Next())
	case msg.String() == "1":
		return m.setFilter(FilterAll)
	case msg.String() == "2":
		return m.setFilter(FilterPending)
	case msg.String() == "3":
		return m.setFilter(FilterCompleted)
	case key.Matches(msg, keys.Refresh):
		return m.refetch()
	case key.Matches(msg, keys.Add):
		m.mode = modeAdd
		m.add.focusTitle()
	case key.Matches(msg, keys.Toggle):
		if t := m.selected(); t != nil {
			return m, m.toggle(t)
		}
	case key.Matches(msg, keys.Edit):
		if t := m.selected(); t != nil {
			m = m.startEdit(t)
		}
	case key.Matches(msg, keys.Delete):
		if t := m.selected(); t != nil {
			return m, m.remove(t.ID)
		}
	case key.Matches(msg, keys.MarkAll):
		return m, m.markAllCompleted()
	case key.Matches(msg, keys.DeleteCompleted):
		return m, m.deleteCompleted()
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeyMap.Cancel):
		m.add.reset()
		m.mode = modeList
		return m, nil
	case key.Matches(msg, formKeyMap.Next):
		m.add.switchFocus()
		return m, nil
	case key.Matches(msg, formKeyMap.Submit):
		title, desc := m.add.values()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		return m, m.create(title, desc)
	}

	var cmd tea.Cmd
	m.add, cmd = m.add.update(msg)
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeyMap.Cancel):
		return m.cancelEdit(), nil
	case key.Matches(msg, formKeyMap.Next):
		m.edit.switchFocus()
		return m, nil
	case key.Matches(msg, formKeyMap.Submit):
		i := m.indexOf(m.editingID)
		if i < 0 {
			return m.cancelEdit(), nil
		}
		title, desc := m.edit.values()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		updated := m.tasks[i].Clone()
		updated.Title = title
		updated.Description = desc
		return m, m.save(updated)
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.update(msg)
	return m, cmd
}

// startEdit copies the task into the edit buffer.
func (m Model) startEdit(t *task.Task) Model {
	m.mode = modeEdit
	m.editingID = t.ID
	m.edit.reset()
	m.edit.title.SetValue(t.Title)
	if t.Description != nil {
		m.edit.description.SetValue(*t.Description)
	}
	return m
}

func (m Model) cancelEdit() Model {
	m.mode = modeList
	m.editingID = 0
	m.edit.reset()
	return m
}

func (m Model) setFilter(f Filter) (Model, tea.Cmd) {
	if f == m.filter {
		return m, nil
	}
	m.filter = f
	m.cursor = 0
	m.tasks = nil
	return m.refetch()
}

func (m Model) selected() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return m.tasks[m.cursor]
}

func (m Model) indexOf(id int64) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) newTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.cmdTimeout)
}

func (m Model) refetch() (Model, tea.Cmd) {
	m.loading = true
	return m, m.fetch()
}

func (m Model) fetch() tea.Cmd {
	filter := m.filter
	return func() tea.Msg {
		timeout, cancel := m.newTimeout()
		defer cancel()

		tasks, err := m.api.List(timeout, filter.completed())
		if err != nil {
			return errorMsg("list", "list %s tasks: %w", strings.ToLower(filter.String()), err)
		}
		return tasksMsg{filter: filter, tasks: tasks}
	}
}

func (m Model) create(title string, description *string) tea.Cmd {
	return func() tea.Msg {
		timeout, cancel := m.newTimeout()
		defer cancel()

		created, err := m.api.Create(timeout, &task.Task{Title: title, Description: description})
		if err != nil {
			return errorMsg("create", "create task: %w", err)
		}
		return createdMsg{task: created}
	}
}

// toggle sends the whole task back since PUT replaces every field.
func (m Model) toggle(t *task.Task) tea.Cmd {
	updated := t.Clone()
	updated.Completed = !updated.Completed
	return func() tea.Msg {
		timeout, cancel := m.newTimeout()
		defer cancel()

		if err := m.api.Update(timeout, updated); err != nil {
			return errorMsg("toggle", "toggle task %d: %w", updated.ID, err)
		}
		return mutatedMsg{action: "toggle", count: 1}
	}
}

func (m Model) save(t *task.Task) tea.Cmd {
	return func() tea.Msg {
		timeout, cancel := m.newTimeout()
		defer cancel()

		if err := m.api.Update(timeout, t); err != nil {
			return errorMsg("edit", "update task %d: %w", t.ID, err)
		}
		return savedMsg{id: t.ID}
	}
}

func (m Model) remove(id int64) tea.Cmd {
	return func() tea.Msg {
		timeout, cancel := m.newTimeout()
		defer cancel()

		if err := m.api.Delete(timeout, id); err != nil {
			return errorMsg("delete", "delete task %d: %w", id, err)
		}
		return mutatedMsg{action: "delete", count: 1}
	}
}

func (m Model) markAllCompleted() tea.Cmd {
	return func() tea.Msg {
		timeout, cancel := m.newTimeout()
		defer cancel()

		count, err := m.api.MarkAllCompleted(timeout)
		if err != nil {
			return errorMsg("mark-all-completed", "mark all completed: %w", err)
		}
		return mutatedMsg{action: "mark-all-completed", count: count}
	}
}

func (m Model) deleteCompleted() tea.Cmd {
	return func() tea.Msg {
		timeout, cancel := m.newTimeout()
		defer cancel()

		count, err := m.api.DeleteCompleted(timeout)
		if err != nil {
			return errorMsg("delete-completed", "delete completed: %w", err)
		}
		return mutatedMsg{action: "delete-completed", count: count}
	}
}
