package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

func (s *TaskStatus) UnmarshalText(b []byte) error {
	v := TaskStatus(b)
	if v != "" && !v.Valid() {
		return fmt.Errorf("unknown task status %q", string(b))
	}
	*s = v
	return nil
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p *TaskPriority) UnmarshalText(b []byte) error {
	v := TaskPriority(b)
	if v != "" && !v.Valid() {
		return fmt.Errorf("unknown task priority %q", string(b))
	}
	*p = v
	return nil
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description"`
	Status      TaskStatus         `bson:"status" json:"status" validate:"enum"`
	Priority    TaskPriority       `bson:"priority" json:"priority" validate:"enum"`
	Deadline    *time.Time         `bson:"deadline" json:"deadline" validate:"required"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type TaskPatch struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	Deadline    *time.Time    `json:"deadline"`
}

// Apply returns a copy of t with the patch applied.
func (patch *TaskPatch) Apply(t Task) Task {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Deadline != nil {
		d := *patch.Deadline
		t.Deadline = &d
	}
	return t
}

// TaskCreate is the payload for a new task. Unset status and priority
// default to pending and medium.
type TaskCreate struct {
	ProjectID string `json:"project_id"`
	TaskPatch
}

// NewTask builds a task of projectID from the payload with defaults applied.
func (c *TaskCreate) NewTask(projectID primitive.ObjectID) Task {
	return c.Apply(Task{
		ProjectID: projectID,
		Status:    TaskPending,
		Priority:  PriorityMedium,
	})
}
