package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
)

// WalletUseCase handles wallet management. Balance mutation is the spend
// orchestrator's job; nothing here touches money movement.
type WalletUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	entryRepo  EntryRepository
	validator  *ReferentialValidator
	idGen      IDGenerator
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	validator *ReferentialValidator,
	idGen IDGenerator,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		validator:  validator,
		idGen:      idGen,
	}
}

// CreateWalletInput represents input for creating a wallet.
type CreateWalletInput struct {
	Identity    domain.Identity
	CurrencyID  string
	Balance     decimal.Decimal
	Description string
	IsGeneral   bool
}

// CreateWallet creates a new wallet. At most one general wallet per user.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	if input.Balance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if input.IsGeneral {
		has, err := uc.walletRepo.HasGeneral(ctx, input.Identity.UserID)
		if err != nil {
			return nil, err
		}

		if has {
			return nil, domain.ErrGeneralWalletExists
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	violations, err := uc.validator.Validate(ctx, tx, domain.EntityWallet, map[string]any{
		"currency_id": input.CurrencyID,
	})
	if err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations)
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:          uc.idGen.Generate(),
		UserID:      input.Identity.UserID,
		CurrencyID:  input.CurrencyID,
		Balance:     input.Balance,
		Description: input.Description,
		IsGeneral:   input.IsGeneral,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Insert in the same transaction the references were validated in.
	if err := uc.walletRepo.CreateTx(ctx, tx, wallet); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return wallet, nil
}

// GetWallet retrieves a wallet, scoped to the identity.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id domain.Identity, walletID string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if !wallet.OwnedBy(id) {
		return nil, domain.ErrWalletNotFound
	}

	return wallet, nil
}

// ListWalletsInput represents input for listing wallets.
type ListWalletsInput struct {
	Limit  int
	Offset int
}

// ListWallets lists wallets visible to the identity.
func (uc *WalletUseCase) ListWallets(ctx context.Context, id domain.Identity, input ListWalletsInput) ([]*domain.Wallet, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	ownerID := id.UserID
	if id.IsAdmin {
		ownerID = ""
	}

	return uc.walletRepo.List(ctx, ownerID, limit, offset)
}

// DeleteWallet removes a wallet that has no budget entries.
func (uc *WalletUseCase) DeleteWallet(ctx context.Context, id domain.Identity, walletID string) error {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return err
	}

	if !wallet.OwnedBy(id) {
		return domain.ErrWalletNotFound
	}

	count, err := uc.entryRepo.CountByWallet(ctx, walletID)
	if err != nil {
		return err
	}

	if count > 0 {
		return domain.ErrWalletInUse
	}

	return uc.walletRepo.Delete(ctx, walletID)
}
