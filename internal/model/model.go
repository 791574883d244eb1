package model

import "time"

// ProjectStatus is the server-side project lifecycle state.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
)

// TaskStatus is the server-side task lifecycle state.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// ProjectStatuses and TaskStatuses list the valid states in form order.
var (
	ProjectStatuses = []ProjectStatus{ProjectActive, ProjectCompleted}
	TaskStatuses    = []TaskStatus{TaskTodo, TaskInProgress, TaskDone}
)

// Display renders a status for humans ("in-progress" -> "In Progress").
func (s TaskStatus) Display() string {
	switch s {
	case TaskTodo:
		return "To Do"
	case TaskInProgress:
		return "In Progress"
	case TaskDone:
		return "Done"
	}
	return string(s)
}

func (s ProjectStatus) Display() string {
	switch s {
	case ProjectActive:
		return "Active"
	case ProjectCompleted:
		return "Completed"
	}
	return string(s)
}

// User is the identity slice of the auth response we care about.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Project is a server-owned record. TaskCount and CreatedAt are derived
// server-side and never sent back on update.
type Project struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	TaskCount   int           `json:"taskCount"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Task is a server-owned record scoped to a project.
type Task struct {
	ID          string     `json:"_id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     time.Time  `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// DueDay is the task's due date as a plain calendar date (YYYY-MM-DD),
// the form wire format; the time-of-day component is discarded.
func (t Task) DueDay() string {
	if t.DueDate.IsZero() {
		return ""
	}
	return t.DueDate.Format("2006-01-02")
}

// ShortDate formats a timestamp the way list rows show it.
func ShortDate(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("Jan 2, 2006")
}
