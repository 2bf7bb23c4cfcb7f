package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// CreateWalletRequest represents a request to create a wallet.
type CreateWalletRequest struct {
	CurrencyID  string `json:"currency_id"`
	Balance     string `json:"balance"`
	Description string `json:"description"`
	IsGeneral   bool   `json:"is_general"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput(id domain.Identity) (usecase.CreateWalletInput, error) {
	balance := decimal.Zero
	if r.Balance != "" {
		var err error

		balance, err = decimal.NewFromString(r.Balance)
		if err != nil {
			return usecase.CreateWalletInput{}, fmt.Errorf("invalid balance %q: %w", r.Balance, err)
		}
	}

	return usecase.CreateWalletInput{
		Identity:    id,
		CurrencyID:  r.CurrencyID,
		Balance:     balance,
		Description: r.Description,
		IsGeneral:   r.IsGeneral,
	}, nil
}

// CreateEntryRequest represents a request to record a spend.
type CreateEntryRequest struct {
	WalletID    string     `json:"wallet_id"`
	CategoryID  string     `json:"category_id"`
	CurrencyID  string     `json:"currency_id"`
	Value       string     `json:"value"`
	Date        *time.Time `json:"date,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput(id domain.Identity) (usecase.CreateEntryInput, error) {
	value, err := decimal.NewFromString(r.Value)
	if err != nil {
		return usecase.CreateEntryInput{}, fmt.Errorf("invalid value %q: %w", r.Value, err)
	}

	date := time.Now().UTC()
	if r.Date != nil {
		date = *r.Date
	}

	return usecase.CreateEntryInput{
		Identity:    id,
		WalletID:    r.WalletID,
		CategoryID:  r.CategoryID,
		CurrencyID:  r.CurrencyID,
		Value:       value,
		Date:        date,
		Name:        r.Name,
		Description: r.Description,
		Content:     r.Content,
	}, nil
}

// UpdateEntryRequest represents a partial update to a budget entry.
// Absent fields are left unchanged.
type UpdateEntryRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Content     *string    `json:"content,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Value       *string    `json:"value,omitempty"`
	CurrencyID  *string    `json:"currency_id,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
	WalletID    *string    `json:"wallet_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput(id domain.Identity, entryID string) (usecase.UpdateEntryInput, error) {
	input := usecase.UpdateEntryInput{
		Identity:    id,
		EntryID:     entryID,
		Name:        r.Name,
		Description: r.Description,
		Content:     r.Content,
		Date:        r.Date,
		CurrencyID:  r.CurrencyID,
		CategoryID:  r.CategoryID,
		WalletID:    r.WalletID,
	}

	if r.Value != nil {
		value, err := decimal.NewFromString(*r.Value)
		if err != nil {
			return usecase.UpdateEntryInput{}, fmt.Errorf("invalid value %q: %w", *r.Value, err)
		}

		input.Value = &value
	}

	return input, nil
}

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
