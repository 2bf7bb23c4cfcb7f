package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

// SpendMetrics records business-level spend metrics. Implementations must
// be safe for concurrent use.
type SpendMetrics interface {
	EntryCreated(debit decimal.Decimal)
	InsufficientFunds()
	RateFetchFailed()
}

// EntryUseCase is the spend orchestrator: it composes the rate source,
// the conversion math, the wallet ledger and the referential validator
// into single atomic units of work.
type EntryUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	walletRepo   WalletRepository
	entryRepo    EntryRepository
	currencyRepo CurrencyRepository
	rates        RateSource
	validator    *ReferentialValidator
	idGen        IDGenerator
	metrics      SpendMetrics
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	retrier Retrier,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	currencyRepo CurrencyRepository,
	rates RateSource,
	validator *ReferentialValidator,
	idGen IDGenerator,
	metrics SpendMetrics,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:    txManager,
		retrier:      retrier,
		walletRepo:   walletRepo,
		entryRepo:    entryRepo,
		currencyRepo: currencyRepo,
		rates:        rates,
		validator:    validator,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// CreateEntryInput represents input for creating a budget entry.
type CreateEntryInput struct {
	Identity    domain.Identity
	WalletID    string
	CategoryID  string
	CurrencyID  string
	Value       decimal.Decimal
	Date        time.Time
	Name        string
	Description string
	Content     string
}

// CreateEntry records a spend: it resolves the wallet, quotes the
// conversion factor before any lock is taken, then inside one transaction
// locks the wallet row, converts and rounds the debit, checks sufficiency,
// validates foreign keys, persists the entry and the new balance. Any
// failure discards the whole transaction.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.BudgetEntry, error) {
	if err := domain.ValidateEntryName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Value); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	// 1. Resolve: wallet and both currencies, before any lock.
	wallet, err := uc.resolveWallet(ctx, input.Identity, input.WalletID)
	if err != nil {
		return nil, err
	}

	spendCur, walletCur, err := uc.resolveCurrencies(ctx, input.CurrencyID, wallet.CurrencyID)
	if err != nil {
		return nil, err
	}

	// 2. Quote: the network round trip happens outside the wallet lock.
	factor, err := uc.quote(ctx, spendCur, walletCur)
	if err != nil {
		return nil, err
	}

	var entry *domain.BudgetEntry

	err = uc.retrier.Retry(ctx, func() error {
		created, txErr := uc.createInTx(ctx, input, factor, walletCur)
		if txErr != nil {
			return txErr
		}

		entry = created

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntryCreated(entry.DebitAmount)
	}

	return entry, nil
}

func (uc *EntryUseCase) createInTx(ctx context.Context, input CreateEntryInput, factor decimal.Decimal, walletCur *domain.Currency) (*domain.BudgetEntry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 3-4. Lock the wallet row and re-read the balance under the lock.
	wallet, err := uc.walletRepo.GetByIDForUpdate(ctx, tx, input.WalletID)
	if err != nil {
		return nil, err
	}

	if !wallet.OwnedBy(input.Identity) {
		return nil, domain.ErrWalletNotFound
	}

	debit, err := uc.convertDebit(input.Value, factor, walletCur)
	if err != nil {
		return nil, err
	}

	if err := wallet.ValidateDebit(debit); err != nil {
		if uc.metrics != nil {
			uc.metrics.InsufficientFunds()
		}

		return nil, err
	}

	// 5. Referential validation, read-consistent with this transaction.
	if err := uc.validateReferences(ctx, tx, map[string]any{
		"wallet_id":   input.WalletID,
		"category_id": input.CategoryID,
		"currency_id": input.CurrencyID,
	}); err != nil {
		return nil, err
	}

	// 6. Persist the entry and the debited balance.
	now := time.Now().UTC()
	entry := &domain.BudgetEntry{
		ID:          uc.idGen.Generate(),
		UserID:      input.Identity.UserID,
		WalletID:    wallet.ID,
		CategoryID:  input.CategoryID,
		CurrencyID:  input.CurrencyID,
		Value:       input.Value,
		DebitAmount: debit,
		Rate:        factor,
		Date:        input.Date,
		Name:        input.Name,
		Description: input.Description,
		Content:     input.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, wallet.ApplyDebit(debit), now); err != nil {
		return nil, err
	}

	// 7. Commit.
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// UpdateEntryInput represents a partial update to a budget entry.
// Nil pointers mean "leave unchanged".
type UpdateEntryInput struct {
	Identity    domain.Identity
	EntryID     string
	Name        *string
	Description *string
	Content     *string
	Date        *time.Time
	Value       *decimal.Decimal
	CurrencyID  *string
	CategoryID  *string
	WalletID    *string
}

func (in *UpdateEntryInput) empty() bool {
	return in.Name == nil && in.Description == nil && in.Content == nil &&
		in.Date == nil && in.Value == nil && in.CurrencyID == nil &&
		in.CategoryID == nil && in.WalletID == nil
}

// monetary reports whether the update touches money movement and so must
// re-run the full credit/debit reconciliation.
func (in *UpdateEntryInput) monetary() bool {
	return in.Value != nil || in.CurrencyID != nil || in.WalletID != nil
}

// UpdateEntry applies a partial update. When value, currency or wallet
// change, the previously recorded debit is credited back and the debit is
// re-run with the new parameters inside the same transaction, so a failed
// re-debit leaves the original balance untouched.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.BudgetEntry, error) {
	if input.empty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	if input.Name != nil {
		if err := domain.ValidateEntryName(*input.Name); err != nil {
			return nil, err
		}
	}

	if input.Value != nil {
		if err := domain.ValidateAmount(*input.Value); err != nil {
			return nil, err
		}
	}

	if input.Description != nil {
		if err := domain.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
	}

	entry, err := uc.entryRepo.GetByID(ctx, input.EntryID)
	if err != nil {
		return nil, err
	}

	if !entry.OwnedBy(input.Identity) {
		return nil, domain.ErrUnauthorized
	}

	if !input.monetary() {
		err = uc.retrier.Retry(ctx, func() error {
			return uc.updatePlainInTx(ctx, entry, input)
		})
		if err != nil {
			return nil, err
		}

		return entry, nil
	}

	return uc.updateMonetary(ctx, entry, input)
}

func (uc *EntryUseCase) updatePlainInTx(ctx context.Context, entry *domain.BudgetEntry, input UpdateEntryInput) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.validateReferences(ctx, tx, fkUpdates(input)); err != nil {
		return err
	}

	applyPlainFields(entry, input)
	entry.UpdatedAt = time.Now().UTC()

	if err := uc.entryRepo.Update(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *EntryUseCase) updateMonetary(ctx context.Context, entry *domain.BudgetEntry, input UpdateEntryInput) (*domain.BudgetEntry, error) {
	newValue := entry.Value
	if input.Value != nil {
		newValue = *input.Value
	}

	newCurrencyID := entry.CurrencyID
	if input.CurrencyID != nil {
		newCurrencyID = *input.CurrencyID
	}

	newWalletID := entry.WalletID
	if input.WalletID != nil {
		newWalletID = *input.WalletID
	}

	target, err := uc.resolveWallet(ctx, input.Identity, newWalletID)
	if err != nil {
		return nil, err
	}

	spendCur, walletCur, err := uc.resolveCurrencies(ctx, newCurrencyID, target.CurrencyID)
	if err != nil {
		return nil, err
	}

	factor, err := uc.quote(ctx, spendCur, walletCur)
	if err != nil {
		return nil, err
	}

	// Each attempt works on a copy: a retried attempt must still see the
	// originally recorded wallet and debit, not the half-applied result of
	// the attempt that failed to commit.
	var committed domain.BudgetEntry

	err = uc.retrier.Retry(ctx, func() error {
		candidate := *entry
		if err := uc.reconcileInTx(ctx, &candidate, input, newValue, newCurrencyID, newWalletID, factor, walletCur); err != nil {
			return err
		}

		committed = candidate

		return nil
	})
	if err != nil {
		return nil, err
	}

	*entry = committed

	return entry, nil
}

// reconcileInTx credits the entry's previously recorded debit back to its
// old wallet, then re-runs convert/debit against the target wallet, all
// under row locks taken in sorted-ID order.
func (uc *EntryUseCase) reconcileInTx(
	ctx context.Context,
	entry *domain.BudgetEntry,
	input UpdateEntryInput,
	newValue decimal.Decimal,
	newCurrencyID, newWalletID string,
	factor decimal.Decimal,
	walletCur *domain.Currency,
) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ids := uniqueSorted([]string{entry.WalletID, newWalletID})

	wallets, err := uc.walletRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	if len(wallets) != len(ids) {
		return domain.ErrWalletNotFound
	}

	walletsByID := make(map[string]*domain.Wallet, len(wallets))
	for _, w := range wallets {
		if !w.OwnedBy(input.Identity) {
			return domain.ErrWalletNotFound
		}

		walletsByID[w.ID] = w
	}

	old := walletsByID[entry.WalletID]
	target := walletsByID[newWalletID]

	if old == nil || target == nil {
		return domain.ErrWalletNotFound
	}

	// Reverse the recorded debit first; the re-debit below then sees the
	// restored balance, even when old and target are the same wallet.
	old.Balance = old.ApplyCredit(entry.DebitAmount)

	debit, err := uc.convertDebit(newValue, factor, walletCur)
	if err != nil {
		return err
	}

	if err := target.ValidateDebit(debit); err != nil {
		if uc.metrics != nil {
			uc.metrics.InsufficientFunds()
		}

		return err
	}

	target.Balance = target.ApplyDebit(debit)

	if err := uc.validateReferences(ctx, tx, fkUpdates(input)); err != nil {
		return err
	}

	applyPlainFields(entry, input)

	now := time.Now().UTC()
	entry.Value = newValue
	entry.CurrencyID = newCurrencyID
	entry.WalletID = newWalletID
	entry.DebitAmount = debit
	entry.Rate = factor
	entry.UpdatedAt = now

	if err := uc.entryRepo.Update(ctx, tx, entry); err != nil {
		return err
	}

	for _, id := range ids {
		w := walletsByID[id]
		if err := uc.walletRepo.UpdateBalance(ctx, tx, w.ID, w.Balance, now); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetEntry retrieves a budget entry by ID, scoped to the identity.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id domain.Identity, entryID string) (*domain.BudgetEntry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.OwnedBy(id) {
		return nil, domain.ErrEntryNotFound
	}

	return entry, nil
}

// ListEntriesInput represents input for listing budget entries.
type ListEntriesInput struct {
	SortBy        string
	SortDirection string
	Limit         int
	Offset        int
}

// ListEntries lists entries visible to the identity. Admins see all users'
// entries.
func (uc *EntryUseCase) ListEntries(ctx context.Context, id domain.Identity, input ListEntriesInput) ([]*domain.BudgetEntry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	filter := EntryFilter{
		SortBy:        input.SortBy,
		SortDirection: input.SortDirection,
		Limit:         limit,
		Offset:        offset,
	}

	if !id.IsAdmin {
		filter.OwnerID = id.UserID
	}

	return uc.entryRepo.List(ctx, filter)
}

// DeleteEntry removes a budget entry. The recorded spend is sunk: no
// credit is applied back to the wallet.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id domain.Identity, entryID string) error {
	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}

	if !entry.OwnedBy(id) {
		return domain.ErrUnauthorized
	}

	return uc.entryRepo.Delete(ctx, entryID)
}

func (uc *EntryUseCase) resolveWallet(ctx context.Context, id domain.Identity, walletID string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	// Not-owned surfaces identically to missing to avoid leaking existence.
	if !wallet.OwnedBy(id) {
		return nil, domain.ErrWalletNotFound
	}

	return wallet, nil
}

func (uc *EntryUseCase) resolveCurrencies(ctx context.Context, spendCurrencyID, walletCurrencyID string) (spend, wallet *domain.Currency, err error) {
	spend, err = uc.currencyRepo.GetByID(ctx, spendCurrencyID)
	if err != nil {
		if errors.Is(err, domain.ErrCurrencyNotFound) {
			return nil, nil, domain.NewValidationError([]domain.FieldError{
				{Field: "currency_id", Value: spendCurrencyID},
			})
		}

		return nil, nil, err
	}

	wallet, err = uc.currencyRepo.GetByID(ctx, walletCurrencyID)
	if err != nil {
		return nil, nil, err
	}

	return spend, wallet, nil
}

// quote fetches the spend→wallet conversion factor. Same-currency spends
// skip the network round trip entirely.
func (uc *EntryUseCase) quote(ctx context.Context, spendCur, walletCur *domain.Currency) (decimal.Decimal, error) {
	if spendCur.Code == walletCur.Code {
		return decimal.NewFromInt(1), nil
	}

	quotes, err := uc.rates.Fetch(ctx, spendCur.Code, []string{walletCur.Code})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RateFetchFailed()
		}

		return decimal.Decimal{}, err
	}

	factor, ok := quotes[walletCur.Code]
	if !ok {
		return decimal.Decimal{}, domain.ErrRateUnavailable
	}

	return factor, nil
}

func (uc *EntryUseCase) convertDebit(value, factor decimal.Decimal, walletCur *domain.Currency) (decimal.Decimal, error) {
	debit, err := domain.Convert(value, factor)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return domain.RoundToMinorUnit(debit, walletCur.Exponent), nil
}

func (uc *EntryUseCase) validateReferences(ctx context.Context, tx Transaction, updates map[string]any) error {
	violations, err := uc.validator.Validate(ctx, tx, domain.EntityBudgetEntry, updates)
	if err != nil {
		return err
	}

	if len(violations) > 0 {
		return domain.NewValidationError(violations)
	}

	return nil
}

func fkUpdates(input UpdateEntryInput) map[string]any {
	updates := make(map[string]any)

	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}

	if input.CurrencyID != nil {
		updates["currency_id"] = *input.CurrencyID
	}

	if input.WalletID != nil {
		updates["wallet_id"] = *input.WalletID
	}

	return updates
}

func applyPlainFields(entry *domain.BudgetEntry, input UpdateEntryInput) {
	if input.Name != nil {
		entry.Name = *input.Name
	}

	if input.Description != nil {
		entry.Description = *input.Description
	}

	if input.Content != nil {
		entry.Content = *input.Content
	}

	if input.Date != nil {
		entry.Date = *input.Date
	}

	if input.CategoryID != nil {
		entry.CategoryID = *input.CategoryID
	}
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))

	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	sort.Strings(out)

	return out
}
