package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

func TestReferentialValidator_Validate(t *testing.T) {
	refRepo := mocks.NewMockReferenceRepository()
	refRepo.SeedRow("categories", "cat-1")
	refRepo.SeedRow("currencies", "cur-usd")
	refRepo.SeedRow("wallets", "wallet-1")

	validator := usecase.NewReferentialValidator(refRepo)

	tests := []struct {
		name       string
		updates    map[string]any
		wantFields []string
	}{
		{
			name:       "all references resolve",
			updates:    map[string]any{"category_id": "cat-1", "currency_id": "cur-usd"},
			wantFields: nil,
		},
		{
			name:       "missing category",
			updates:    map[string]any{"category_id": "cat-999"},
			wantFields: []string{"category_id"},
		},
		{
			name:       "all violations reported in one pass",
			updates:    map[string]any{"category_id": "cat-999", "currency_id": "cur-999", "wallet_id": "wallet-1"},
			wantFields: []string{"category_id", "currency_id"},
		},
		{
			name:       "nil clears a reference",
			updates:    map[string]any{"category_id": nil},
			wantFields: nil,
		},
		{
			name:       "non-foreign-key fields skipped",
			updates:    map[string]any{"name": "groceries", "value": "20"},
			wantFields: nil,
		},
		{
			name:       "absent fields skipped",
			updates:    map[string]any{},
			wantFields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations, err := validator.Validate(context.Background(), nil, domain.EntityBudgetEntry, tt.updates)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(violations) != len(tt.wantFields) {
				t.Fatalf("expected %d violations, got %d: %v", len(tt.wantFields), len(violations), violations)
			}

			got := make(map[string]bool)
			for _, v := range violations {
				got[v.Field] = true
			}

			for _, field := range tt.wantFields {
				if !got[field] {
					t.Errorf("expected violation for %s", field)
				}
			}
		})
	}
}

func TestReferentialValidator_ReportsValue(t *testing.T) {
	refRepo := mocks.NewMockReferenceRepository()
	validator := usecase.NewReferentialValidator(refRepo)

	violations, err := validator.Validate(context.Background(), nil, domain.EntityBudgetEntry, map[string]any{
		"category_id": "cat-999",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(violations) != 1 {
		t.Fatalf("expected exactly one violation, got %d", len(violations))
	}

	if violations[0].Field != "category_id" || violations[0].Value != "cat-999" {
		t.Errorf("unexpected violation: %+v", violations[0])
	}
}

func TestReferentialValidator_LookupError(t *testing.T) {
	refRepo := mocks.NewMockReferenceRepository()
	lookupErr := errors.New("connection reset")
	refRepo.ExistsFunc = func(ctx context.Context, tx usecase.Transaction, table, keyField string, value any) (bool, error) {
		return false, lookupErr
	}

	validator := usecase.NewReferentialValidator(refRepo)

	_, err := validator.Validate(context.Background(), nil, domain.EntityBudgetEntry, map[string]any{
		"category_id": "cat-1",
	})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error to propagate, got %v", err)
	}
}
