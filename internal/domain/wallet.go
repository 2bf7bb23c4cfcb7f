package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents a balance account in one currency, owned by one user.
type Wallet struct {
	ID          string
	UserID      string
	CurrencyID  string
	Balance     decimal.Decimal
	Description string
	IsGeneral   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateDebit checks that debiting amount keeps the balance non-negative.
func (w *Wallet) ValidateDebit(amount decimal.Decimal) error {
	if w.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}

	return nil
}

// ApplyDebit returns the balance after a debit.
func (w *Wallet) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit. Credits never fail on
// value grounds.
func (w *Wallet) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Add(amount)
}

// OwnedBy reports whether the identity may act on this wallet.
func (w *Wallet) OwnedBy(id Identity) bool {
	return id.IsAdmin || w.UserID == id.UserID
}
