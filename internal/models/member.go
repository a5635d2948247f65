package models

import "time"

type Member struct {
	BaseModel

	UserID      uint      `gorm:"not null;uniqueIndex:idx_member_user_workspace" json:"userId"`
	WorkspaceID uint      `gorm:"not null;uniqueIndex:idx_member_user_workspace;index" json:"workspaceId"`
	RoleID      uint      `gorm:"not null;index" json:"roleId"`
	JoinedAt    time.Time `gorm:"not null" json:"joinedAt"`

	// Relationships
	User      *UserSummary `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Workspace *Workspace   `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	Role      *Role        `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}
