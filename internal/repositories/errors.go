package repositories

import (
	"errors"
	"fmt"

	appErrors "rewards/internal/errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = appErrors.NotFound("USER_NOT_FOUND", "user not found")
	ErrCardNotFound        = appErrors.NotFound("CARD_NOT_FOUND", "card not found")
	ErrCatalogCardNotFound = appErrors.NotFound("CATALOG_CARD_NOT_FOUND", "catalog card not found")
	ErrOverrideNotFound    = appErrors.NotFound("OVERRIDE_NOT_FOUND", "merchant override not found")
	ErrBalanceNotFound     = appErrors.NotFound("BALANCE_NOT_FOUND", "reward balance not found")
	ErrDuplicateRule       = appErrors.Validation("DUPLICATE_RULE", "a reward rule for this category already exists on the card")
)

// translate maps gorm's not-found to notFound and wraps anything else.
func translate(err error, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
