package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is the progress state of an onboarding task. Any status may
// overwrite any other; there is no transition graph.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Task is a single onboarding checklist entry embedded in its owning User.
type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	TaskName    string             `json:"taskName" bson:"taskName"`
	Description string             `json:"description" bson:"description"`
	Status      TaskStatus         `json:"status" bson:"status"`
	DueDate     time.Time          `json:"dueDate" bson:"dueDate"`
}

type seedTask struct {
	name        string
	description string
	dueIn       time.Duration
}

const day = 24 * time.Hour

var defaultChecklist = []seedTask{
	{"Complete Profile", "Fill out your personal information", 7 * day},
	{"Read Employee Handbook", "Review company policies and procedures", 3 * day},
	{"Setup Workstation", "Configure your computer and accounts", 2 * day},
}

// SeedTasks returns the fixed checklist every new employee starts with, all
// pending and due relative to now.
func SeedTasks(now time.Time) []Task {
	tasks := make([]Task, 0, len(defaultChecklist))
	for _, st := range defaultChecklist {
		tasks = append(tasks, Task{
			ID:          primitive.NewObjectID(),
			TaskName:    st.name,
			Description: st.description,
			Status:      TaskPending,
			DueDate:     now.Add(st.dueIn),
		})
	}
	return tasks
}
