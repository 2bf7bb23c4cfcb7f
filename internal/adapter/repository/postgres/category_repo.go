package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobudget/internal/domain"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `
		SELECT id, name, description, content, created_at
		FROM categories
		WHERE id = $1
	`

	var (
		category  domain.Category
		createdAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.Content,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	category.CreatedAt = createdAt.Time

	return &category, nil
}

// List retrieves categories with pagination.
func (r *CategoryRepository) List(ctx context.Context, limit, offset int) ([]*domain.Category, error) {
	query := `
		SELECT id, name, description, content, created_at
		FROM categories
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var (
			category  domain.Category
			createdAt pgtype.Timestamptz
		)
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.Content,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		category.CreatedAt = createdAt.Time
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}
