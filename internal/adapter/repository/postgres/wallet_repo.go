package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

const walletColumns = `id, user_id, currency_id, balance, description, is_general, created_at, updated_at`

const pgErrUniqueViolation = "23505"

// mapWalletInsertError translates a violation of the one-general-wallet
// unique index into domain.ErrGeneralWalletExists. Concurrent creates can
// both pass the HasGeneral check; the index decides the loser.
func mapWalletInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == "wallets_one_general_per_user_idx" {
		return domain.ErrGeneralWalletExists
	}

	return err
}

// Create inserts a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.CurrencyID,
		decimalToNumeric(wallet.Balance),
		wallet.Description,
		wallet.IsGeneral,
		timeToPgTimestamptz(wallet.CreatedAt),
		timeToPgTimestamptz(wallet.UpdatedAt),
	)

	return mapWalletInsertError(err)
}

// CreateTx inserts a new wallet within an open transaction.
func (r *WalletRepository) CreateTx(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := txOf(tx).Exec(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.CurrencyID,
		decimalToNumeric(wallet.Balance),
		wallet.Description,
		wallet.IsGeneral,
		timeToPgTimestamptz(wallet.CreatedAt),
		timeToPgTimestamptz(wallet.UpdatedAt),
	)

	return mapWalletInsertError(err)
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	wallet, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	return wallet, nil
}

// GetByIDForUpdate retrieves a wallet by ID with a FOR UPDATE lock.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	wallet, err := scanWallet(txOf(tx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	return wallet, nil
}

// GetByIDsForUpdate retrieves multiple wallets with FOR UPDATE locks.
// Locks are acquired in ascending ID order to avoid deadlocks between
// concurrent reconciliations.
func (r *WalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := txOf(tx).Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := make([]*domain.Wallet, 0, len(ids))
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

// UpdateBalance updates the balance of a wallet.
func (r *WalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE wallets SET balance = $2, updated_at = $3 WHERE id = $1`

	_, err := txOf(tx).Exec(ctx, query, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// HasGeneral reports whether the user already owns a general wallet.
func (r *WalletRepository) HasGeneral(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM wallets WHERE user_id = $1 AND is_general)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID).Scan(&exists)

	return exists, err
}

// List retrieves wallets with pagination. An empty ownerID lists across
// all users.
func (r *WalletRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Wallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE ($1 = '' OR user_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

// Delete deletes a wallet.
func (r *WalletRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM wallets WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet               domain.Wallet
		balance              pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.CurrencyID,
		&balance,
		&wallet.Description,
		&wallet.IsGeneral,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	wallet.Balance = numericToDecimal(balance)
	wallet.CreatedAt = createdAt.Time
	wallet.UpdatedAt = updatedAt.Time

	return &wallet, nil
}
