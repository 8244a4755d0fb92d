package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Cap periods. A cap is a ceiling on raw reward units earned per period.
const (
	CapPeriodTransaction = "transaction"
	CapPeriodMonthly     = "monthly"
	CapPeriodAnnual      = "annual"
)

// RewardRule is the earn rate a card pays for one canonical category.
// (card_id, category) is unique.
type RewardRule struct {
	ID        uint     `gorm:"primarykey" json:"id"`
	CardID    uint     `gorm:"not null;uniqueIndex:idx_rule_card_category" json:"card_id"`
	Category  string   `gorm:"not null;uniqueIndex:idx_rule_card_category" json:"category"`
	EarnRate  float64  `gorm:"not null" json:"earn_rate"`
	Cap       *float64 `json:"cap"`
	CapPeriod string   `gorm:"not null;default:'monthly'" json:"cap_period"`
	Notes     string   `gorm:"default:''" json:"notes"`
	CreatedAt time.Time
}

func (r *RewardRule) BeforeCreate(tx *gorm.DB) error {
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	if r.CapPeriod == "" {
		r.CapPeriod = CapPeriodMonthly
	}
	return nil
}

// CreateRuleInput represents the input for adding a reward rule to a card
type CreateRuleInput struct {
	Category  string   `json:"category"`
	EarnRate  float64  `json:"earn_rate"`
	Cap       *float64 `json:"cap"`
	CapPeriod string   `json:"cap_period"`
	Notes     string   `json:"notes"`
}
