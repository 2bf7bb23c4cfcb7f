package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	CurrencyID  string          `json:"currency_id"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description,omitempty"`
	IsGeneral   bool            `json:"is_general"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:          w.ID,
		UserID:      w.UserID,
		CurrencyID:  w.CurrencyID,
		Balance:     w.Balance,
		Description: w.Description,
		IsGeneral:   w.IsGeneral,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// ListWalletsResponse wraps a wallet listing.
type ListWalletsResponse struct {
	Wallets []*WalletResponse `json:"wallets"`
	Total   int64             `json:"total"`
}

// EntryResponse represents a budget entry in API responses.
type EntryResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	WalletID    string          `json:"wallet_id"`
	CategoryID  string          `json:"category_id"`
	CurrencyID  string          `json:"currency_id"`
	Value       decimal.Decimal `json:"value"`
	DebitAmount decimal.Decimal `json:"debit_amount"`
	Rate        decimal.Decimal `json:"rate"`
	Date        time.Time       `json:"date"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Content     string          `json:"content,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.BudgetEntry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		WalletID:    e.WalletID,
		CategoryID:  e.CategoryID,
		CurrencyID:  e.CurrencyID,
		Value:       e.Value,
		DebitAmount: e.DebitAmount,
		Rate:        e.Rate,
		Date:        e.Date,
		Name:        e.Name,
		Description: e.Description,
		Content:     e.Content,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.BudgetEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps an entry listing.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Exponent int32  `json:"exponent"`
}

// CurrencyFromDomain converts a domain currency to a response.
func CurrencyFromDomain(c *domain.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		ID:       c.ID,
		Code:     c.Code,
		Name:     c.Name,
		Exponent: c.Exponent,
	}
}

// CurrenciesFromDomain converts domain currencies to responses.
func CurrenciesFromDomain(currencies []*domain.Currency) []*CurrencyResponse {
	result := make([]*CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = CurrencyFromDomain(c)
	}
	return result
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

// CategoryFromDomain converts a domain category to a response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Content:     c.Content,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ErrorResponse represents an error in API responses. Fields carries the
// per-field violations of a failed referential validation pass.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}
