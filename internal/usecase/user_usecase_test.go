package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/kosherbill/internal/domain"
	"github.com/iho/kosherbill/internal/usecase"
	"github.com/iho/kosherbill/internal/usecase/mocks"
)

func newUserFixture() (*usecase.UserUseCase, *mocks.MockUserRepository, *mocks.MockAccountRepository) {
	userRepo := mocks.NewMockUserRepository()
	accountRepo := mocks.NewMockAccountRepository()

	uc := usecase.NewUserUseCase(
		mocks.NewMockTransactionManager(),
		userRepo,
		accountRepo,
		mocks.NewMockIDGenerator(),
	)

	return uc, userRepo, accountRepo
}

func TestUserUseCase_Register(t *testing.T) {
	uc, _, accountRepo := newUserFixture()

	user, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "inspector@example.com",
		Name:     "Dov Katz",
		Password: "Str0ng-Passw0rd",
		Role:     domain.RoleWorker,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.AccountID == "" {
		t.Fatal("expected an account attached to the user")
	}

	account, err := accountRepo.GetByID(context.Background(), user.AccountID)
	if err != nil {
		t.Fatalf("account not created: %v", err)
	}

	if account.Kind != domain.AccountKindWorker {
		t.Errorf("expected worker account for worker role, got %s", account.Kind)
	}

	if account.Balance != 0 {
		t.Errorf("expected zero opening balance, got %d", account.Balance)
	}
}

func TestUserUseCase_Register_Rejections(t *testing.T) {
	uc, _, _ := newUserFixture()

	tests := []struct {
		name  string
		input usecase.RegisterInput
	}{
		{
			name: "bad email",
			input: usecase.RegisterInput{
				Email: "not-an-email", Name: "X", Password: "Str0ng-Passw0rd", Role: domain.RoleClient,
			},
		},
		{
			name: "short password",
			input: usecase.RegisterInput{
				Email: "a@b.com", Name: "X", Password: "short", Role: domain.RoleClient,
			},
		},
		{
			name: "unknown role",
			input: usecase.RegisterInput{
				Email: "a@b.com", Name: "X", Password: "Str0ng-Passw0rd", Role: "superuser",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Register(context.Background(), tt.input); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestUserUseCase_Register_DuplicateEmail(t *testing.T) {
	uc, _, _ := newUserFixture()

	input := usecase.RegisterInput{
		Email:    "client@example.com",
		Name:     "Rivka Stern",
		Password: "Str0ng-Passw0rd",
		Role:     domain.RoleClient,
	}

	if _, err := uc.Register(context.Background(), input); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	if _, err := uc.Register(context.Background(), input); err == nil {
		t.Error("expected duplicate email rejected")
	}
}

func TestUserUseCase_Authenticate(t *testing.T) {
	uc, _, _ := newUserFixture()

	if _, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "admin@example.com",
		Name:     "Admin",
		Password: "Str0ng-Passw0rd",
		Role:     domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	user, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "admin@example.com",
		Password: "Str0ng-Passw0rd",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %s", user.Role)
	}

	_, err = uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "admin@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	_, err = uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "nobody@example.com",
		Password: "Str0ng-Passw0rd",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}
