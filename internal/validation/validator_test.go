package validation

import (
	"errors"
	"math"
	"testing"

	appErrors "rewards/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	tests := []struct {
		name    string
		check   func(v *Validator)
		wantErr string
	}{
		{
			name: "valid request",
			check: func(v *Validator) {
				v.Required("category", "dining")
				v.ID("user_id", 1)
				v.NonNegative("spend_amount", 0)
				v.Range("confidence", 1, 0, 1)
			},
		},
		{
			name: "blank string",
			check: func(v *Validator) {
				v.Required("merchant", "   ")
			},
			wantErr: "merchant must not be empty",
		},
		{
			name: "errors sorted by field",
			check: func(v *Validator) {
				v.NonNegative("spend_amount", -1)
				v.ID("card_id", 0)
			},
			wantErr: "card_id must be a positive id; spend_amount must be a non-negative number",
		},
		{
			name: "NaN rejected",
			check: func(v *Validator) {
				v.NonNegative("spend_amount", math.NaN())
			},
			wantErr: "spend_amount must be a non-negative number",
		},
		{
			name: "first error per field wins",
			check: func(v *Validator) {
				v.Range("confidence", 2, 0, 1)
				v.NonNegative("confidence", 2)
				v.AddError("confidence", "ignored")
			},
			wantErr: "confidence must be between 0 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			tt.check(v)

			err := v.Err()
			if tt.wantErr == "" {
				assert.True(t, v.Valid())
				assert.NoError(t, err)
				return
			}
			assert.False(t, v.Valid())
			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
		})
	}
}
