package models

import "time"

// BaseModel is gorm.Model without soft deletes: deleted rows must free their
// unique keys (membership pairs, invite codes) immediately.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
