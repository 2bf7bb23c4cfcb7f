package domain

import (
	"strings"
	"testing"
)

func TestForeignKeys(t *testing.T) {
	entryFKs := ForeignKeys(EntityBudgetEntry)

	want := map[string]string{
		"user_id":     "users",
		"wallet_id":   "wallets",
		"category_id": "categories",
		"currency_id": "currencies",
	}

	if len(entryFKs) != len(want) {
		t.Fatalf("expected %d descriptors, got %d", len(want), len(entryFKs))
	}

	for _, fk := range entryFKs {
		table, ok := want[fk.Field]
		if !ok {
			t.Errorf("unexpected foreign key field %q", fk.Field)
			continue
		}

		if fk.RefTable != table {
			t.Errorf("field %q: expected table %q, got %q", fk.Field, table, fk.RefTable)
		}

		if fk.RefKey != "id" {
			t.Errorf("field %q: expected key id, got %q", fk.Field, fk.RefKey)
		}
	}
}

func TestForeignKeys_UnknownEntity(t *testing.T) {
	if fks := ForeignKeys(Entity("unknown")); fks != nil {
		t.Errorf("expected nil for unknown entity, got %v", fks)
	}
}

func TestValidationError_ListsEveryField(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: "category_id", Value: "999"},
		{Field: "currency_id", Value: "777"},
	})

	msg := err.Error()
	for _, field := range []string{"category_id", "currency_id"} {
		if !strings.Contains(msg, field) {
			t.Errorf("expected message to mention %s, got %q", field, msg)
		}
	}
}
