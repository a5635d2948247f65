package models

type Project struct {
	BaseModel

	Name        string  `gorm:"not null" json:"name"`
	Description *string `json:"description"`
	Emoji       string  `gorm:"not null" json:"emoji"`
	WorkspaceID uint    `gorm:"not null;index" json:"workspaceId"`
	CreatedByID uint    `gorm:"not null" json:"createdById"`

	// Relationships
	CreatedBy *UserSummary `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

// ProjectSummary is the project view embedded in task payloads.
type ProjectSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

func (ProjectSummary) TableName() string {
	return "projects"
}
