package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetEntry represents a recorded spend event debited from a wallet,
// possibly stated in a different currency. Value and CurrencyID are
// historical facts; DebitAmount is the wallet-currency amount actually
// debited, rounded once at record time, and Rate is the conversion factor
// that produced it. Editing a monetary field re-runs the full
// credit/debit reconciliation rather than overwriting the stored numbers.
type BudgetEntry struct {
	ID          string
	UserID      string
	WalletID    string
	CategoryID  string
	CurrencyID  string
	Value       decimal.Decimal
	DebitAmount decimal.Decimal
	Rate        decimal.Decimal
	Date        time.Time
	Name        string
	Description string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether the identity may act on this entry.
func (e *BudgetEntry) OwnedBy(id Identity) bool {
	return id.IsAdmin || e.UserID == id.UserID
}
