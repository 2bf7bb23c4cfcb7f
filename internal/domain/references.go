package domain

// Entity names the tables whose updates go through the referential
// validator.
type Entity string

const (
	EntityWallet      Entity = "wallets"
	EntityBudgetEntry Entity = "budget_entries"
)

// ForeignKeyDescriptor declares one foreign-key reference on an entity:
// the field holding the reference, the table it points into, and the key
// column matched there. Built once at startup, consumed as plain data.
type ForeignKeyDescriptor struct {
	Field    string
	RefTable string
	RefKey   string
}

var foreignKeys = map[Entity][]ForeignKeyDescriptor{
	EntityWallet: {
		{Field: "user_id", RefTable: "users", RefKey: "id"},
		{Field: "currency_id", RefTable: "currencies", RefKey: "id"},
	},
	EntityBudgetEntry: {
		{Field: "user_id", RefTable: "users", RefKey: "id"},
		{Field: "wallet_id", RefTable: "wallets", RefKey: "id"},
		{Field: "category_id", RefTable: "categories", RefKey: "id"},
		{Field: "currency_id", RefTable: "currencies", RefKey: "id"},
	},
}

// ForeignKeys returns the declared foreign-key references for an entity.
// The returned slice must be treated as read-only.
func ForeignKeys(entity Entity) []ForeignKeyDescriptor {
	return foreignKeys[entity]
}
