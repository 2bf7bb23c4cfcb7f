package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_WalletsRequireAuthentication(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected unauthenticated request to return 401, got %d", rec.Code)
	}
}

func TestNewRouter_AuthenticatedWalletListSucceeds(t *testing.T) {
	jwtManager := newTestJWTManager()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
	}))

	token := generateTestToken(t, jwtManager)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected authenticated request to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimitPerSec = 1
		cfg.RateLimitBurst = 1
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	jwtManager := newTestJWTManager()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.JWTManager = jwtManager
	}))

	body := `{"wallet_id":"w1","category_id":"c1","currency_id":"USD","value":"10.00","name":"Groceries"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, jwtManager))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"POST /api/v1/wallets/",
		"GET /api/v1/wallets/",
		"GET /api/v1/wallets/{id}",
		"DELETE /api/v1/wallets/{id}",
		"POST /api/v1/entries/",
		"PATCH /api/v1/entries/{id}",
		"GET /api/v1/currencies/",
		"GET /api/v1/categories/",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func generateTestToken(t *testing.T, jwtManager *auth.JWTManager) string {
	t.Helper()

	token, err := jwtManager.Generate(&domain.User{
		ID:    "user-1",
		Email: "user@example.com",
		Role:  domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	return token
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		AuthHandler:      handler.NewAuthHandler(&stubUserService{}, newTestJWTManager()),
		WalletHandler:    handler.NewWalletHandler(&stubWalletService{}),
		EntryHandler:     handler.NewEntryHandler(&stubEntryService{}),
		ReferenceHandler: handler.NewReferenceHandler(&stubCurrencyRepository{}, &stubCategoryRepository{}),
		HealthHandler:    &handler.HealthHandler{},
		JWTManager:       newTestJWTManager(),
		IdempotencyTTL:   time.Hour,
		Logger:           zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubUserService struct{}

func (stubUserService) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: input.Email, Role: input.Role}, nil
}

func (stubUserService) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: input.Email, Role: domain.RoleUser}, nil
}

func (stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id, Role: domain.RoleUser}, nil
}

type stubWalletService struct{}

func (stubWalletService) CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error) {
	return &domain.Wallet{ID: "wallet-1", UserID: input.Identity.UserID}, nil
}

func (stubWalletService) GetWallet(ctx context.Context, id domain.Identity, walletID string) (*domain.Wallet, error) {
	return &domain.Wallet{ID: walletID, UserID: id.UserID}, nil
}

func (stubWalletService) ListWallets(ctx context.Context, id domain.Identity, input usecase.ListWalletsInput) ([]*domain.Wallet, error) {
	return []*domain.Wallet{}, nil
}

func (stubWalletService) DeleteWallet(ctx context.Context, id domain.Identity, walletID string) error {
	return nil
}

type stubEntryService struct{}

func (stubEntryService) CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.BudgetEntry, error) {
	return &domain.BudgetEntry{ID: "entry-1", WalletID: input.WalletID}, nil
}

func (stubEntryService) UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput) (*domain.BudgetEntry, error) {
	return &domain.BudgetEntry{ID: input.EntryID}, nil
}

func (stubEntryService) GetEntry(ctx context.Context, id domain.Identity, entryID string) (*domain.BudgetEntry, error) {
	return &domain.BudgetEntry{ID: entryID}, nil
}

func (stubEntryService) ListEntries(ctx context.Context, id domain.Identity, input usecase.ListEntriesInput) ([]*domain.BudgetEntry, error) {
	return []*domain.BudgetEntry{}, nil
}

func (stubEntryService) DeleteEntry(ctx context.Context, id domain.Identity, entryID string) error {
	return nil
}

type stubCurrencyRepository struct{}

func (stubCurrencyRepository) GetByID(ctx context.Context, id string) (*domain.Currency, error) {
	return &domain.Currency{ID: id}, nil
}

func (stubCurrencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	return []*domain.Currency{}, nil
}

type stubCategoryRepository struct{}

func (stubCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return &domain.Category{ID: id}, nil
}

func (stubCategoryRepository) List(ctx context.Context, limit, offset int) ([]*domain.Category, error) {
	return []*domain.Category{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
