// Package validation collects field-level validation failures and turns them
// into validation errors.
package validation

import (
	domainErrors "paynet/internal/errors"
)

// Validator accumulates field errors.
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

// AddError records message for field unless field already has one.
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

// Merge copies every error of other into v.
func (v *Validator) Merge(errs map[string]string) {
	for field, msg := range errs {
		v.AddError(field, msg)
	}
}

// Err returns a validation error carrying the collected fields, or nil.
func (v *Validator) Err(message string) error {
	if v.Valid() {
		return nil
	}
	return domainErrors.ValidationFields(message, v.Errors)
}
