package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Wallet errors
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrGeneralWalletExists = errors.New("user already has a general wallet")
	ErrWalletInUse         = errors.New("wallet has budget entries")

	// Conversion errors
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	ErrInvalidFactor   = errors.New("conversion factor must be positive")

	// Entry errors
	ErrEntryNotFound    = errors.New("budget entry not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// Reference errors
	ErrCurrencyNotFound = errors.New("currency not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Identity errors
	ErrUnauthorized       = errors.New("operation not permitted")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
)

// FieldError reports a single foreign-key reference that does not resolve.
type FieldError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: no row with key %v", e.Field, e.Value)
}

// ValidationError carries every violated field from one validation pass.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError from field violations.
func NewValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}
