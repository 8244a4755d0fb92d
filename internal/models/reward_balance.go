package models

import "time"

// RewardBalance is the accumulated reward units reported for a card.
type RewardBalance struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CardID    uint      `gorm:"not null;uniqueIndex" json:"card_id"`
	Balance   float64   `gorm:"not null;default:0" json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
