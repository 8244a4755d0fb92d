package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	appErrors "rewards/internal/errors"
)

// Validator collects field errors for one request.
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records the first error for a field.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks that a string is not blank.
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// ID checks that a path or body id is set.
func (v *Validator) ID(field string, id uint) {
	v.Check(id > 0, field, "must be a positive id")
}

// NonNegative checks that a number is finite and not below zero.
func (v *Validator) NonNegative(field string, value float64) {
	v.Check(!math.IsNaN(value) && !math.IsInf(value, 0) && value >= 0, field, "must be a non-negative number")
}

// Range checks if a number is between min and max
func (v *Validator) Range(field string, value float64, min, max float64) {
	v.Check(value >= min && value <= max, field, fmt.Sprintf("must be between %v and %v", min, max))
}

// Err returns the collected errors as a validation DomainError, or nil.
// Fields are reported in name order.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	fields := make([]string, 0, len(v.Errors))
	for f := range v.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+v.Errors[f])
	}
	return appErrors.Validation("INVALID_REQUEST", strings.Join(parts, "; "))
}
