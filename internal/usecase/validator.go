package usecase

import (
	"context"

	"github.com/iho/gobudget/internal/domain"
)

// ReferentialValidator checks proposed field updates against the entity's
// declared foreign-key references. Lookups run inside the caller's
// transaction so they observe writes already staged there.
type ReferentialValidator struct {
	refRepo ReferenceRepository
}

// NewReferentialValidator creates a new ReferentialValidator.
func NewReferentialValidator(refRepo ReferenceRepository) *ReferentialValidator {
	return &ReferentialValidator{refRepo: refRepo}
}

// Validate checks every foreign-key field present in updates with a
// non-nil value and returns the full list of violations in one pass.
// Fields absent from updates are skipped; nil clears a reference and is
// legal unless the schema marks the column NOT NULL.
func (v *ReferentialValidator) Validate(ctx context.Context, tx Transaction, entity domain.Entity, updates map[string]any) ([]domain.FieldError, error) {
	var violations []domain.FieldError

	for _, fk := range domain.ForeignKeys(entity) {
		value, present := updates[fk.Field]
		if !present || value == nil {
			continue
		}

		exists, err := v.refRepo.Exists(ctx, tx, fk.RefTable, fk.RefKey, value)
		if err != nil {
			return nil, err
		}

		if !exists {
			violations = append(violations, domain.FieldError{Field: fk.Field, Value: value})
		}
	}

	return violations, nil
}
