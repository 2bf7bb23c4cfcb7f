package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/usecase"
)

type userServiceStub struct {
	CreateUserFunc   func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	AuthenticateFunc func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	GetUserFunc      func(ctx context.Context, id string) (*domain.User, error)
}

func (s *userServiceStub) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
	return s.CreateUserFunc(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return s.AuthenticateFunc(ctx, input)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.GetUserFunc(ctx, id)
}

func newAuthTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func TestAuthHandlerRegister(t *testing.T) {
	var gotInput usecase.CreateUserInput
	stub := &userServiceStub{
		CreateUserFunc: func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
			gotInput = input
			return &domain.User{ID: "user-1", Email: input.Email, Name: input.Name, Role: input.Role}, nil
		},
	}
	h := NewAuthHandler(stub, newAuthTestJWTManager())

	body := `{"email":"new@example.com","name":"New User","password":"long-enough-pw","role":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Requested roles are ignored; registration always creates a regular user.
	if gotInput.Role != domain.RoleUser {
		t.Errorf("expected role %q, got %q", domain.RoleUser, gotInput.Role)
	}

	var resp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Email != "new@example.com" {
		t.Errorf("unexpected email %q", resp.Email)
	}
}

func TestAuthHandlerLoginIssuesVerifiableToken(t *testing.T) {
	stub := &userServiceStub{
		AuthenticateFunc: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: input.Email, Role: domain.RoleAdmin}, nil
		},
	}
	jwtManager := newAuthTestJWTManager()
	h := NewAuthHandler(stub, jwtManager)

	body := `{"email":"admin@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	claims, err := jwtManager.Verify(resp.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if !claims.Identity().IsAdmin {
		t.Errorf("expected admin identity from token")
	}
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	stub := &userServiceStub{
		AuthenticateFunc: func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, newAuthTestJWTManager())

	body := `{"email":"nobody@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandlerGetCurrentUser(t *testing.T) {
	stub := &userServiceStub{
		GetUserFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Email: "me@example.com", Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub, newAuthTestJWTManager())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = withIdentity(req, domain.Identity{UserID: "user-1"})
	rec := httptest.NewRecorder()

	h.GetCurrentUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "user-1" {
		t.Errorf("expected user-1, got %q", resp.ID)
	}
}
