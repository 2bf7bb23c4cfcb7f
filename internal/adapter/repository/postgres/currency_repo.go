package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobudget/internal/domain"
)

// CurrencyRepository implements usecase.CurrencyRepository.
type CurrencyRepository struct {
	pool *pgxpool.Pool
}

// NewCurrencyRepository creates a new CurrencyRepository.
func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}

// GetByID retrieves a currency by ID.
func (r *CurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	query := `
		SELECT id, code, name, exponent, created_at
		FROM currencies
		WHERE id = $1
	`

	var (
		currency  domain.Currency
		createdAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&currency.ID,
		&currency.Code,
		&currency.Name,
		&currency.Exponent,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCurrencyNotFound
		}

		return nil, err
	}

	currency.CreatedAt = createdAt.Time

	return &currency, nil
}

// List retrieves all currencies ordered by code.
func (r *CurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	query := `
		SELECT id, code, name, exponent, created_at
		FROM currencies
		ORDER BY code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var currencies []*domain.Currency
	for rows.Next() {
		var (
			currency  domain.Currency
			createdAt pgtype.Timestamptz
		)
		err := rows.Scan(
			&currency.ID,
			&currency.Code,
			&currency.Name,
			&currency.Exponent,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		currency.CreatedAt = createdAt.Time
		currencies = append(currencies, &currency)
	}

	return currencies, rows.Err()
}
