package models

import (
	"time"
)

// ConfirmationCode is the database fallback for pending signup codes.
// Only a bcrypt hash of the code is kept.
type ConfirmationCode struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	CodeHash  string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (ConfirmationCode) TableName() string {
	return "confirmation_codes"
}

// Expired reports whether the code can no longer be exchanged at now.
func (c *ConfirmationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
