package integration

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/adapter/repository/postgres"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/tests/testutil"
)

// staticRateSource quotes fixed factors so tests never hit the network.
type staticRateSource struct {
	quotes map[string]decimal.Decimal
}

func (s *staticRateSource) Fetch(ctx context.Context, base string, symbols []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		if factor, ok := s.quotes[base+symbol]; ok {
			out[symbol] = factor
		}
	}
	return out, nil
}

type nopSpendMetrics struct{}

func (nopSpendMetrics) EntryCreated(decimal.Decimal) {}
func (nopSpendMetrics) InsufficientFunds()           {}
func (nopSpendMetrics) RateFetchFailed()             {}

type stack struct {
	walletRepo *postgres.WalletRepository
	entryRepo  *postgres.EntryRepository
	walletUC   *usecase.WalletUseCase
	entryUC    *usecase.EntryUseCase
}

func newStack(db *testutil.TestDB, rates usecase.RateSource) *stack {
	pool := db.Pool

	txManager := postgres.NewTxManager(pool)
	retrier := postgres.NewRetrier(zerolog.Nop())
	walletRepo := postgres.NewWalletRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	currencyRepo := postgres.NewCurrencyRepository(pool)
	referenceRepo := postgres.NewReferenceRepository(pool)
	idGen := postgres.NewULIDGenerator()
	validator := usecase.NewReferentialValidator(referenceRepo)

	return &stack{
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		walletUC:   usecase.NewWalletUseCase(txManager, walletRepo, entryRepo, validator, idGen),
		entryUC: usecase.NewEntryUseCase(
			txManager, retrier, walletRepo, entryRepo, currencyRepo,
			rates, validator, idGen, nopSpendMetrics{},
		),
	}
}
