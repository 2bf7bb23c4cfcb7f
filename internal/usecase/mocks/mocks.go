// Package mocks provides hand-written mocks for usecase interfaces.
// Every mock falls back to a thread-safe in-memory implementation when no
// Func override is set.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	CreateFunc            func(ctx context.Context, wallet *domain.Wallet) error
	CreateTxFunc          func(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Wallet, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	HasGeneralFunc        func(ctx context.Context, userID string) (bool, error)
	ListFunc              func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Wallet, error)
	DeleteFunc            func(ctx context.Context, id string) error
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// Seed adds a wallet to the in-memory store.
func (m *MockWalletRepository) Seed(w *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[w.ID] = w
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) CreateTx(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, wallet)
	}
	copied := *wallet
	stageWrite(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.wallets[copied.ID] = &copied
	})
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockWalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, id := range ids {
		if w, ok := m.wallets[id]; ok {
			copied := *w
			wallets = append(wallets, &copied)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	stageWrite(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if w, ok := m.wallets[id]; ok {
			w.Balance = balance
			w.UpdatedAt = updatedAt
		}
	})
	return nil
}

func (m *MockWalletRepository) HasGeneral(ctx context.Context, userID string) (bool, error) {
	if m.HasGeneralFunc != nil {
		return m.HasGeneralFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.UserID == userID && w.IsGeneral {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockWalletRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Wallet, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, w := range m.wallets {
		if ownerID == "" || w.UserID == ownerID {
			copied := *w
			wallets = append(wallets, &copied)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wallets, id)
	return nil
}

// Balance reads the current stored balance, for assertions.
func (m *MockWalletRepository) Balance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		return w.Balance
	}
	return decimal.Decimal{}
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.BudgetEntry

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.BudgetEntry) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.BudgetEntry, error)
	UpdateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.BudgetEntry) error
	ListFunc          func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.BudgetEntry, error)
	CountByWalletFunc func(ctx context.Context, walletID string) (int64, error)
	DeleteFunc        func(ctx context.Context, id string) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.BudgetEntry),
	}
}

// Seed adds an entry to the in-memory store.
func (m *MockEntryRepository) Seed(e *domain.BudgetEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.BudgetEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	copied := *entry
	stageWrite(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.entries[copied.ID] = &copied
	})
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.BudgetEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.BudgetEntry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, entry)
	}
	copied := *entry
	stageWrite(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.entries[copied.ID] = &copied
	})
	return nil
}

func (m *MockEntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.BudgetEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.BudgetEntry
	for _, e := range m.entries {
		if filter.OwnerID == "" || e.UserID == filter.OwnerID {
			copied := *e
			entries = append(entries, &copied)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) CountByWallet(ctx context.Context, walletID string) (int64, error) {
	if m.CountByWalletFunc != nil {
		return m.CountByWalletFunc(ctx, walletID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, e := range m.entries {
		if e.WalletID == walletID {
			count++
		}
	}
	return count, nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Len reports the number of stored entries, for assertions.
func (m *MockEntryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// MockCurrencyRepository is a mock implementation of CurrencyRepository.
type MockCurrencyRepository struct {
	mu         sync.RWMutex
	currencies map[string]*domain.Currency

	GetByIDFunc func(ctx context.Context, id string) (*domain.Currency, error)
	ListFunc    func(ctx context.Context) ([]*domain.Currency, error)
}

func NewMockCurrencyRepository() *MockCurrencyRepository {
	return &MockCurrencyRepository{
		currencies: make(map[string]*domain.Currency),
	}
}

// Seed adds a currency to the in-memory store.
func (m *MockCurrencyRepository) Seed(c *domain.Currency) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[c.ID] = c
}

func (m *MockCurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.currencies[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCurrencyNotFound
}

func (m *MockCurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var currencies []*domain.Currency
	for _, c := range m.currencies {
		currencies = append(currencies, c)
	}
	return currencies, nil
}

// MockReferenceRepository is a mock implementation of ReferenceRepository.
// Rows are keyed "table/value".
type MockReferenceRepository struct {
	mu   sync.RWMutex
	rows map[string]bool

	ExistsFunc func(ctx context.Context, tx usecase.Transaction, table, keyField string, value any) (bool, error)
}

func NewMockReferenceRepository() *MockReferenceRepository {
	return &MockReferenceRepository{
		rows: make(map[string]bool),
	}
}

// SeedRow marks a referenced row as existing.
func (m *MockReferenceRepository) SeedRow(table string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[table+"/"+value] = true
}

func (m *MockReferenceRepository) Exists(ctx context.Context, tx usecase.Transaction, table, keyField string, value any) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, tx, table, keyField, value)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := value.(string)
	if !ok {
		return false, nil
	}
	return m.rows[table+"/"+s], nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockRateSource is a mock implementation of RateSource.
type MockRateSource struct {
	mu     sync.Mutex
	Quotes map[string]decimal.Decimal
	Err    error
	Calls  int

	FetchFunc func(ctx context.Context, base string, symbols []string) (map[string]decimal.Decimal, error)
}

func NewMockRateSource() *MockRateSource {
	return &MockRateSource{
		Quotes: make(map[string]decimal.Decimal),
	}
}

func (m *MockRateSource) Fetch(ctx context.Context, base string, symbols []string) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, base, symbols)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Quotes, nil
}

// MockTransaction is a mock transaction. Repository writes made through it
// are buffered and only hit the backing stores when Commit succeeds; Rollback
// or a failed Commit discards them. Commit and Rollback release the manager's
// serialization lock at most once.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	mu     sync.Mutex
	writes []func()

	release func()
	once    sync.Once
}

func (t *MockTransaction) stage(write func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = append(t.writes, write)
}

func (t *MockTransaction) discard() {
	t.mu.Lock()
	t.writes = nil
	t.mu.Unlock()
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.release != nil {
		defer t.once.Do(t.release)
	}
	if t.CommitFunc != nil {
		if err := t.CommitFunc(ctx); err != nil {
			t.discard()
			return err
		}
	}
	t.mu.Lock()
	writes := t.writes
	t.writes = nil
	t.mu.Unlock()
	for _, write := range writes {
		write()
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.release != nil {
		defer t.once.Do(t.release)
	}
	t.discard()
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// stageWrite buffers the write on the transaction when it is a
// MockTransaction; writes on a nil or foreign transaction apply right away.
func stageWrite(tx usecase.Transaction, write func()) {
	if mt, ok := tx.(*MockTransaction); ok && mt != nil {
		mt.stage(write)
		return
	}
	write()
}

// MockTransactionManager is a mock implementation of TransactionManager.
// With Serialize set, Begin blocks until the previous transaction commits
// or rolls back, mimicking an exclusive row lock held for the transaction
// lifetime.
type MockTransactionManager struct {
	Serialize bool
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu sync.Mutex
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	tx := &MockTransaction{}
	if m.Serialize {
		m.mu.Lock()
		tx.release = m.mu.Unlock
	}

	return tx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockRetrier is a pass-through Retrier.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
