package models

type Workspace struct {
	BaseModel

	Name        string  `gorm:"not null" json:"name"`
	Description *string `json:"description"`
	OwnerID     uint    `gorm:"not null;index" json:"owner"`
	InviteCode  string  `gorm:"not null;uniqueIndex" json:"inviteCode"`

	// Relationships
	Owner    *User     `gorm:"foreignKey:OwnerID" json:"-"`
	Members  []Member  `gorm:"foreignKey:WorkspaceID" json:"members,omitempty"`
	Projects []Project `gorm:"foreignKey:WorkspaceID" json:"-"`
	Tasks    []Task    `gorm:"foreignKey:WorkspaceID" json:"-"`
}
