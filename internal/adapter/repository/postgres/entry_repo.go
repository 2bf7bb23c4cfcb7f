package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, user_id, wallet_id, category_id, currency_id, value, debit_amount, rate, date, name, description, content, created_at, updated_at`

// Columns a listing may be ordered by. Anything else falls back to date.
var entrySortColumns = map[string]string{
	"date":       "date",
	"name":       "name",
	"value":      "value",
	"created_at": "created_at",
}

// Create inserts a budget entry within an open transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.BudgetEntry) error {
	query := `
		INSERT INTO budget_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := txOf(tx).Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.WalletID,
		entry.CategoryID,
		entry.CurrencyID,
		decimalToNumeric(entry.Value),
		decimalToNumeric(entry.DebitAmount),
		decimalToNumeric(entry.Rate),
		timeToPgTimestamptz(entry.Date),
		entry.Name,
		entry.Description,
		entry.Content,
		timeToPgTimestamptz(entry.CreatedAt),
		timeToPgTimestamptz(entry.UpdatedAt),
	)

	return err
}

// GetByID retrieves a budget entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.BudgetEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM budget_entries WHERE id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

// Update persists all mutable fields of an entry within an open
// transaction.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.BudgetEntry) error {
	query := `
		UPDATE budget_entries
		SET wallet_id = $2, category_id = $3, currency_id = $4, value = $5,
		    debit_amount = $6, rate = $7, date = $8, name = $9,
		    description = $10, content = $11, updated_at = $12
		WHERE id = $1
	`

	tag, err := txOf(tx).Exec(ctx, query,
		entry.ID,
		entry.WalletID,
		entry.CategoryID,
		entry.CurrencyID,
		decimalToNumeric(entry.Value),
		decimalToNumeric(entry.DebitAmount),
		decimalToNumeric(entry.Rate),
		timeToPgTimestamptz(entry.Date),
		entry.Name,
		entry.Description,
		entry.Content,
		timeToPgTimestamptz(entry.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List retrieves budget entries matching the filter. The sort column is
// resolved against a fixed whitelist so filter input never reaches SQL
// as an identifier.
func (r *EntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.BudgetEntry, error) {
	column, ok := entrySortColumns[filter.SortBy]
	if !ok {
		column = "date"
	}

	direction := "DESC"
	if filter.SortDirection == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT `+entryColumns+`
		FROM budget_entries
		WHERE ($1 = '' OR user_id = $1)
		ORDER BY %s %s, id
		LIMIT $2 OFFSET $3
	`, column, direction)

	rows, err := r.pool.Query(ctx, query, filter.OwnerID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.BudgetEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CountByWallet counts entries referencing a wallet.
func (r *EntryRepository) CountByWallet(ctx context.Context, walletID string) (int64, error) {
	query := `SELECT COUNT(*) FROM budget_entries WHERE wallet_id = $1`

	var count int64
	err := r.pool.QueryRow(ctx, query, walletID).Scan(&count)

	return count, err
}

// Delete deletes a budget entry.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM budget_entries WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

func scanEntry(row pgx.Row) (*domain.BudgetEntry, error) {
	var (
		entry                      domain.BudgetEntry
		value, debitAmount, rate   pgtype.Numeric
		date, createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.WalletID,
		&entry.CategoryID,
		&entry.CurrencyID,
		&value,
		&debitAmount,
		&rate,
		&date,
		&entry.Name,
		&entry.Description,
		&entry.Content,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Value = numericToDecimal(value)
	entry.DebitAmount = numericToDecimal(debitAmount)
	entry.Rate = numericToDecimal(rate)
	entry.Date = date.Time
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}
