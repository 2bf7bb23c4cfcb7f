package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobudget/internal/usecase"
)

// Tables and key fields the existence probe may touch. Descriptors come
// from domain.ForeignKeys, but the whitelist is enforced here too so no
// caller can aim the query at an arbitrary identifier.
var referenceTargets = map[string]map[string]bool{
	"users":      {"id": true},
	"wallets":    {"id": true},
	"categories": {"id": true},
	"currencies": {"id": true},
}

// ReferenceRepository implements usecase.ReferenceRepository.
type ReferenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository creates a new ReferenceRepository.
func NewReferenceRepository(pool *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{pool: pool}
}

// Exists reports whether a row with the given key value exists. The
// lookup runs inside the supplied transaction so it observes any writes
// already staged there.
func (r *ReferenceRepository) Exists(ctx context.Context, tx usecase.Transaction, table, keyField string, value any) (bool, error) {
	fields, ok := referenceTargets[table]
	if !ok || !fields[keyField] {
		return false, fmt.Errorf("reference lookup not allowed for %s.%s", table, keyField)
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, table, keyField)

	var exists bool
	err := txOf(tx).QueryRow(ctx, query, value).Scan(&exists)

	return exists, err
}
