package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile holds the display settings of an authenticated user. Keyed by the
// auth UID, not a generated id.
type Profile struct {
	UserID    string         `gorm:"type:varchar(128);primarykey" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	FirstName string `gorm:"type:varchar(255)" json:"first_name"`
	LastName  string `gorm:"type:varchar(255)" json:"last_name"`
	Email     string `gorm:"type:varchar(255)" json:"email"`
	Location  string `gorm:"type:varchar(255)" json:"location,omitempty"`
	AvatarURL string `gorm:"type:varchar(512)" json:"avatar_url,omitempty"`
	Currency  string `gorm:"type:varchar(20);default:'USD ($)'" json:"currency"`
}

// IsComplete reports whether the profile has been filled in
func (p Profile) IsComplete() bool {
	return p.FirstName != "" && p.LastName != ""
}
