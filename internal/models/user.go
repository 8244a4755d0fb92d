package models

import "time"

// Preference values a user can hold. A preference only hints ranking.
const (
	PreferenceTravel   = "travel"
	PreferenceCashback = "cashback"
	PreferenceBalanced = "balanced"
)

type User struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Preference string `gorm:"not null;default:'balanced'" json:"preference"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Cards      []Card `gorm:"foreignKey:UserID" json:"-"`
}
