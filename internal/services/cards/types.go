package cards

import "rewards/internal/models"

// CardDetails is a card with its rules.
type CardDetails struct {
	Card  *models.Card         `json:"card"`
	Rules []*models.RewardRule `json:"rules"`
	// SeededFromCatalog is set when the rules were copied from the catalog
	// entry with the same name and bank.
	SeededFromCatalog bool `json:"seeded_from_catalog"`
}
