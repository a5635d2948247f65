package models

import (
	"time"

	"github.com/taskhive-dev/taskhive/internal/types"
)

type Task struct {
	BaseModel

	TaskCode     string             `gorm:"not null;uniqueIndex" json:"taskCode"`
	Title        string             `gorm:"not null" json:"title"`
	Description  *string            `json:"description"`
	Status       types.TaskStatus   `gorm:"not null;index" json:"status"`
	Priority     types.TaskPriority `gorm:"not null" json:"priority"`
	WorkspaceID  uint               `gorm:"not null;index" json:"workspaceId"`
	ProjectID    uint               `gorm:"not null;index" json:"projectId"`
	AssignedToID *uint              `gorm:"index" json:"assignedToId"`
	CreatedByID  uint               `gorm:"not null" json:"createdById"`
	DueDate      *time.Time         `json:"dueDate"`

	// Relationships
	Project    *ProjectSummary `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo *UserSummary    `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
}
