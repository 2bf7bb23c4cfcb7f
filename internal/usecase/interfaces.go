package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	CreateTx(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	HasGeneral(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Wallet, error)
	Delete(ctx context.Context, id string) error
}

// EntryRepository defines data access for budget entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.BudgetEntry) error
	GetByID(ctx context.Context, id string) (*domain.BudgetEntry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.BudgetEntry) error
	List(ctx context.Context, filter EntryFilter) ([]*domain.BudgetEntry, error)
	CountByWallet(ctx context.Context, walletID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// EntryFilter narrows and orders entry listings. OwnerID empty means no
// owner scoping (admin).
type EntryFilter struct {
	OwnerID       string
	SortBy        string
	SortDirection string
	Limit         int
	Offset        int
}

// CurrencyRepository defines data access for the currency reference table.
type CurrencyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Currency, error)
	List(ctx context.Context) ([]*domain.Currency, error)
}

// CategoryRepository defines data access for the category reference table.
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Category, error)
}

// ReferenceRepository resolves foreign-key existence lookups. Calls run
// within the supplied transaction, read-consistent with writes already
// staged there.
type ReferenceRepository interface {
	Exists(ctx context.Context, tx Transaction, table, keyField string, value any) (bool, error)
}

// RateSource fetches spot conversion factors from an external provider.
// One outbound call per invocation; no retry, no implicit caching.
type RateSource interface {
	Fetch(ctx context.Context, base string, symbols []string) (map[string]decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs a unit of work on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
