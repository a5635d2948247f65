package models

import "github.com/taskhive-dev/taskhive/internal/types"

// Account is one credential for a user: a local email login or an external
// identity. One external identity maps to exactly one user.
type Account struct {
	BaseModel

	UserID     uint                  `gorm:"not null;index" json:"userId"`
	Provider   types.AccountProvider `gorm:"not null;uniqueIndex:idx_account_provider_identity" json:"provider"`
	ProviderID string                `gorm:"not null;uniqueIndex:idx_account_provider_identity" json:"providerId"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}
