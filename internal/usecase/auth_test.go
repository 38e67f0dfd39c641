package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/poruchai/poruchai/internal/domain/errors"
	"github.com/poruchai/poruchai/internal/domain/model"
	pkgAuth "github.com/poruchai/poruchai/internal/pkg/auth"
	testhelpers "github.com/poruchai/poruchai/internal/test"
)

func TestAuthUseCaseRegister(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, "admin@example.com")

	user, token, err := uc.Register(context.Background(), "alice@example.com", "pass")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}
	if user.Role != model.RoleUser {
		t.Fatalf("expected regular role, got %q", user.Role)
	}

	stored, err := users.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.PasswordHash != "hash:pass" {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}
}

func TestAuthUseCaseRegisterAdminRole(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, "admin@example.com")

	user, _, err := uc.Register(context.Background(), "Admin@Example.com", "pass")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Fatalf("configured admin email must receive the admin role, got %q", user.Role)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, "admin@example.com")

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "pass"},
		{"no at sign", "alice.example.com", "pass"},
		{"at sign first", "@example.com", "pass"},
		{"at sign last", "alice@", "pass"},
		{"spaces inside", "ali ce@example.com", "pass"},
		{"empty password", "alice@example.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := uc.Register(context.Background(), tc.email, tc.password); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
				t.Fatalf("expected invalid credentials, got %v", err)
			}
		})
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, "admin@example.com")

	if _, _, err := uc.Register(context.Background(), "alice@example.com", "pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "alice@example.com", "other"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, "admin@example.com")

	if _, _, err := uc.Register(context.Background(), "alice@example.com", "pass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, token, err := uc.Authenticate(context.Background(), "alice@example.com", "pass"); err != nil || token != "token" {
		t.Fatalf("authenticate failed: token=%q err=%v", token, err)
	}

	if _, _, err := uc.Authenticate(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if _, _, err := uc.Authenticate(context.Background(), "nobody@example.com", "pass"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, testhelpers.StrategyStub{ParseFn: func(string) (int64, error) { return 17, nil }}, "admin@example.com")

	id, err := uc.ParseToken("anything")
	if err != nil || id != 17 {
		t.Fatalf("unexpected parse result id=%d err=%v", id, err)
	}

	if _, err := uc.ParseToken(""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token for empty input, got %v", err)
	}
}
