package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Undelivered reports whether the project counts towards the pending
// amount. In-progress work is still undelivered.
func (s ProjectStatus) Undelivered() bool {
	return s == ProjectPending || s == ProjectInProgress
}

func (s *ProjectStatus) UnmarshalText(b []byte) error {
	v := ProjectStatus(b)
	if v != "" && !v.Valid() {
		return fmt.Errorf("unknown project status %q", string(b))
	}
	*s = v
	return nil
}

// Project is owned by exactly one member. Leaders only ever read it.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID    primitive.ObjectID `bson:"member_id" json:"member_id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description"`
	Amount      float64            `bson:"amount" json:"amount" validate:"gte=0"`
	Status      ProjectStatus      `bson:"status" json:"status" validate:"enum"`
	Deadline    *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Progress    int                `bson:"progress" json:"progress" validate:"gte=0,lte=100"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProjectPatch carries the fields a member may change. Nil means keep.
type ProjectPatch struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Amount      *float64       `json:"amount"`
	Status      *ProjectStatus `json:"status"`
	Deadline    *time.Time     `json:"deadline"`
	Progress    *int           `json:"progress"`
}

// Apply returns a copy of p with the patch applied. p is not modified.
func (patch *ProjectPatch) Apply(p Project) Project {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Amount != nil {
		p.Amount = *patch.Amount
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Deadline != nil {
		d := *patch.Deadline
		p.Deadline = &d
	}
	if patch.Progress != nil {
		p.Progress = *patch.Progress
	}
	return p
}

// NewProject builds a project of memberID from the patch. Unset status
// defaults to pending.
func (patch *ProjectPatch) NewProject(memberID primitive.ObjectID) Project {
	return patch.Apply(Project{
		MemberID: memberID,
		Status:   ProjectPending,
	})
}
