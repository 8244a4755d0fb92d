package cards

import (
	appErrors "rewards/internal/errors"
)

var (
	ErrNameRequired = appErrors.Validation("NAME_REQUIRED", "card name is required")
	ErrBankRequired = appErrors.Validation("BANK_REQUIRED", "bank is required")
	ErrInvalidRate  = appErrors.Validation("INVALID_EARN_RATE", "earn_rate must be a non-negative number")
	ErrInvalidCap   = appErrors.Validation("INVALID_CAP", "cap must be a non-negative number")
)

// wrap passes domain errors through and marks anything else as a storage
// failure.
func wrap(msg string, err error) error {
	if appErrors.KindOf(err) != "" {
		return err
	}
	return appErrors.Collaborator(msg, err)
}
