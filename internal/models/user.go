package models

import (
	"time"

	"github.com/taskhive-dev/taskhive/internal/types"
)

type User struct {
	BaseModel

	Name               string     `gorm:"not null" json:"name"`
	Email              string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash       *string    `json:"-"`
	ProfilePicture     *string    `json:"profilePicture"`
	IsActive           bool       `gorm:"not null;default:true" json:"isActive"`
	LastLogin          *time.Time `json:"lastLogin"`
	CurrentWorkspaceID *uint      `gorm:"index" json:"currentWorkspaceId"`

	// Relationships
	CurrentWorkspace *Workspace `gorm:"foreignKey:CurrentWorkspaceID" json:"currentWorkspace,omitempty"`
	Accounts         []Account  `gorm:"foreignKey:UserID" json:"-"`
	Memberships      []Member   `gorm:"foreignKey:UserID" json:"-"`
}

func (u User) Response() types.UserResponse {
	return types.UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		ProfilePicture:     u.ProfilePicture,
		CurrentWorkspaceID: u.CurrentWorkspaceID,
		LastLogin:          u.LastLogin,
	}
}

// UserSummary is a read-only view of the users table embedded in task,
// project and member payloads.
type UserSummary struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email,omitempty"`
	ProfilePicture *string `json:"profilePicture"`
}

func (UserSummary) TableName() string {
	return "users"
}
