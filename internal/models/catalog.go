package models

import "time"

// CatalogCard is a card from the reference catalog. Users do not own
// catalog cards; they are candidates for gap-fill suggestions and the
// source of auto-seeded rules.
type CatalogCard struct {
	ID             uint          `gorm:"primarykey" json:"id"`
	Name           string        `gorm:"not null;uniqueIndex:idx_catalog_name_bank" json:"name"`
	Bank           string        `gorm:"not null;uniqueIndex:idx_catalog_name_bank" json:"bank"`
	RewardType     string        `gorm:"not null" json:"reward_type"`
	AnnualFee      float64       `gorm:"default:0" json:"annual_fee"`
	KeyBenefits    string        `gorm:"default:''" json:"key_benefits"`
	TargetAudience string        `gorm:"default:''" json:"target_audience"`
	MinIncome      *float64      `json:"min_income,omitempty"`
	PointValue     float64       `gorm:"default:0" json:"point_value"`
	Approximate    bool          `gorm:"default:false" json:"approximate"`
	ImportBatch    string        `gorm:"index" json:"import_batch"`
	Rates          []CatalogRate `gorm:"foreignKey:CatalogCardID;constraint:OnDelete:CASCADE" json:"rates"`
	CreatedAt      time.Time     `json:"-"`
	UpdatedAt      time.Time     `json:"-"`
}

// CatalogRate is the earn rate a catalog card advertises for a category.
type CatalogRate struct {
	ID            uint    `gorm:"primarykey" json:"-"`
	CatalogCardID uint    `gorm:"not null;index" json:"-"`
	Category      string  `gorm:"not null" json:"category"`
	EarnRate      float64 `gorm:"not null" json:"earn_rate"`
}

// RateFor returns the advertised rate for category, if any.
func (c *CatalogCard) RateFor(category string) (float64, bool) {
	for _, r := range c.Rates {
		if r.Category == category {
			return r.EarnRate, true
		}
	}
	return 0, false
}
