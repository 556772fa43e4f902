package task

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of DueDate.
const DateLayout = "2006-01-02"

type Task struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Completed   bool       `json:"completed" db:"completed"`
	Priority    *Priority  `json:"priority" db:"priority"`
	Category    *string    `json:"category" db:"category"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

type Priority string

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

// DefaultPriority is assigned on create when the caller gives none.
const DefaultPriority = PriorityMedium

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

func (p Priority) String() string {
	return string(p)
}

// Filter restricts List. A nil Completed means every row.
type Filter struct {
	Completed *bool
}

func CompletedFilter(completed bool) Filter {
	return Filter{Completed: &completed}
}

func (f Filter) Match(t *Task) bool {
	return f.Completed == nil || *f.Completed == t.Completed
}

// Clone returns a deep copy so stores never hand out their own pointers.
func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.Priority != nil {
		p := *t.Priority
		c.Priority = &p
	}
	if t.Category != nil {
		cat := *t.Category
		c.Category = &cat
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return &c
}

// ParseDate parses a YYYY-MM-DD due date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a due date, nil stays nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
