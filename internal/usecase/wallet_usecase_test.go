package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

func newWalletFixture() (*usecase.WalletUseCase, *mocks.MockWalletRepository, *mocks.MockEntryRepository) {
	walletRepo := mocks.NewMockWalletRepository()
	entryRepo := mocks.NewMockEntryRepository()
	refRepo := mocks.NewMockReferenceRepository()
	refRepo.SeedRow("currencies", "cur-usd")

	uc := usecase.NewWalletUseCase(
		mocks.NewMockTransactionManager(),
		walletRepo,
		entryRepo,
		usecase.NewReferentialValidator(refRepo),
		mocks.NewMockIDGenerator(),
	)

	return uc, walletRepo, entryRepo
}

func TestWalletUseCase_CreateWallet(t *testing.T) {
	uc, _, _ := newWalletFixture()

	wallet, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		Identity:   domain.Identity{UserID: "user-1"},
		CurrencyID: "cur-usd",
		Balance:    decimal.RequireFromString("100.00"),
		IsGeneral:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wallet.UserID != "user-1" || !wallet.IsGeneral {
		t.Errorf("unexpected wallet: %+v", wallet)
	}
}

func TestWalletUseCase_CreateWallet_SecondGeneralRejected(t *testing.T) {
	uc, walletRepo, _ := newWalletFixture()

	walletRepo.Seed(&domain.Wallet{ID: "wallet-1", UserID: "user-1", IsGeneral: true})

	_, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		Identity:   domain.Identity{UserID: "user-1"},
		CurrencyID: "cur-usd",
		IsGeneral:  true,
	})
	if !errors.Is(err, domain.ErrGeneralWalletExists) {
		t.Fatalf("expected ErrGeneralWalletExists, got %v", err)
	}
}

func TestWalletUseCase_CreateWallet_GeneralRaceSurfacesDomainError(t *testing.T) {
	uc, walletRepo, _ := newWalletFixture()

	// A concurrent create can slip past the HasGeneral precheck; the
	// insert then fails on the one-general-wallet index and the repository
	// reports it as the domain error.
	walletRepo.CreateTxFunc = func(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
		return domain.ErrGeneralWalletExists
	}

	_, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		Identity:   domain.Identity{UserID: "user-1"},
		CurrencyID: "cur-usd",
		IsGeneral:  true,
	})
	if !errors.Is(err, domain.ErrGeneralWalletExists) {
		t.Fatalf("expected ErrGeneralWalletExists, got %v", err)
	}
}

func TestWalletUseCase_CreateWallet_UnknownCurrency(t *testing.T) {
	uc, _, _ := newWalletFixture()

	_, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		Identity:   domain.Identity{UserID: "user-1"},
		CurrencyID: "cur-999",
	})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	if len(verr.Fields) != 1 || verr.Fields[0].Field != "currency_id" {
		t.Errorf("unexpected violations: %+v", verr.Fields)
	}
}

func TestWalletUseCase_CreateWallet_NegativeBalance(t *testing.T) {
	uc, _, _ := newWalletFixture()

	_, err := uc.CreateWallet(context.Background(), usecase.CreateWalletInput{
		Identity:   domain.Identity{UserID: "user-1"},
		CurrencyID: "cur-usd",
		Balance:    decimal.RequireFromString("-1"),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestWalletUseCase_GetWallet_Scoping(t *testing.T) {
	uc, walletRepo, _ := newWalletFixture()

	walletRepo.Seed(&domain.Wallet{ID: "wallet-1", UserID: "user-1"})

	if _, err := uc.GetWallet(context.Background(), domain.Identity{UserID: "user-1"}, "wallet-1"); err != nil {
		t.Fatalf("owner access failed: %v", err)
	}

	if _, err := uc.GetWallet(context.Background(), domain.Identity{UserID: "user-2"}, "wallet-1"); !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected ErrWalletNotFound for foreign wallet, got %v", err)
	}

	if _, err := uc.GetWallet(context.Background(), domain.Identity{UserID: "x", IsAdmin: true}, "wallet-1"); err != nil {
		t.Fatalf("admin access failed: %v", err)
	}
}

func TestWalletUseCase_DeleteWallet_WithEntries(t *testing.T) {
	uc, walletRepo, entryRepo := newWalletFixture()

	walletRepo.Seed(&domain.Wallet{ID: "wallet-1", UserID: "user-1"})
	entryRepo.Seed(&domain.BudgetEntry{ID: "e-1", UserID: "user-1", WalletID: "wallet-1"})

	err := uc.DeleteWallet(context.Background(), domain.Identity{UserID: "user-1"}, "wallet-1")
	if !errors.Is(err, domain.ErrWalletInUse) {
		t.Fatalf("expected ErrWalletInUse, got %v", err)
	}
}

func TestWalletUseCase_DeleteWallet_Empty(t *testing.T) {
	uc, walletRepo, _ := newWalletFixture()

	walletRepo.Seed(&domain.Wallet{ID: "wallet-1", UserID: "user-1"})

	if err := uc.DeleteWallet(context.Background(), domain.Identity{UserID: "user-1"}, "wallet-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.GetWallet(context.Background(), domain.Identity{UserID: "user-1"}, "wallet-1"); !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("expected wallet gone, got %v", err)
	}
}
