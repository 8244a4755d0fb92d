package models

import "time"

// MerchantOverride pins a merchant name to a category.
type MerchantOverride struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	Merchant   string  `gorm:"not null;uniqueIndex" json:"merchant"`
	Category   string  `gorm:"not null" json:"category"`
	Confidence float64 `gorm:"not null" json:"confidence"`
	UpdatedAt  time.Time
}
