package models

import (
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/datatypes"
)

// Role rows are seed data. Authorization reads the permission set from
// types.RoleName, the stored copy is informational.
type Role struct {
	BaseModel

	Name        types.RoleName                       `gorm:"not null;uniqueIndex" json:"name"`
	Permissions datatypes.JSONSlice[types.Permission] `json:"permissions"`
}
