package models

import "time"

// Reward types a card can pay in.
const (
	RewardTypePoints   = "points"
	RewardTypeMiles    = "miles"
	RewardTypeCashback = "cashback"
)

// Card is a payment card held by a user. Cards are never hard-deleted;
// Active=false is the soft delete.
type Card struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	UserID     uint         `gorm:"not null;index" json:"user_id"`
	Name       string       `gorm:"not null" json:"name"`
	Bank       string       `gorm:"not null" json:"bank"`
	RewardType string       `gorm:"not null" json:"reward_type"`
	AnnualFee  float64      `gorm:"default:0" json:"annual_fee"`
	Active     bool         `gorm:"not null;default:true" json:"active"`
	Rules      []RewardRule `gorm:"foreignKey:CardID" json:"-"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// CreateCardInput represents the input for adding a card to a user
type CreateCardInput struct {
	Name       string  `json:"name"`
	Bank       string  `json:"bank"`
	RewardType string  `json:"reward_type"`
	AnnualFee  float64 `json:"annual_fee"`
}
