package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todoList/internal/models/task"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("221")).MarginBottom(1)
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	activeTab      = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("212"))
	inactiveTab    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	formStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("To-Do List"))
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")

	if m.mode == modeAdd {
		b.WriteString(formStyle.Render("New task\n" + m.add.title.View() + "\n" + m.add.description.View()))
		b.WriteString("\n\n")
	}

	switch {
	case m.loading && len(m.tasks) == 0:
		b.WriteString(dimStyle.Render("Loading..."))
		b.WriteString("\n")
	case len(m.tasks) == 0:
		b.WriteString(dimStyle.Render("No tasks."))
		b.WriteString("\n")
	default:
		for i, t := range m.tasks {
			b.WriteString(m.renderTask(i, t))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.mode == modeList {
		b.WriteString(m.help.View(keys))
	} else {
		b.WriteString(m.help.View(formKeyMap))
	}
	return b.String()
}

func (m Model) renderFilters() string {
	tabs := make([]string, 0, len(filterNames))
	for i, name := range filterNames {
		style := inactiveTab
		if Filter(i) == m.filter {
			style = activeTab
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", i+1, name)))
	}
	return strings.Join(tabs, "  ")
}

func (m Model) renderTask(i int, t *task.Task) string {
	if m.mode == modeEdit && t.ID == m.editingID {
		return formStyle.Render(fmt.Sprintf("Editing #%d\n%s\n%s", t.ID, m.edit.title.View(), m.edit.description.View()))
	}

	pointer := "  "
	if i == m.cursor {
		pointer = selectedStyle.Render("> ")
	}

	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = completedStyle.Render(title)
	} else if i == m.cursor {
		title = selectedStyle.Render(title)
	}

	line := fmt.Sprintf("%s%s %s", pointer, check, title)
	if t.Priority != nil {
		line += " " + priorityStyles[*t.Priority].Render(t.Priority.String())
	}
	if t.Category != nil {
		line += " " + dimStyle.Render("#"+*t.Category)
	}
	if due := task.FormatDate(t.DueDate); due != nil {
		line += " " + dimStyle.Render("due "+*due)
	}

	meta := dimStyle.Render("created " + t.CreatedAt.Local().Format("2006-01-02 15:04"))
	if t.Description != nil && *t.Description != "" {
		return line + "\n      " + *t.Description + "\n      " + meta
	}
	return line + "\n      " + meta
}
