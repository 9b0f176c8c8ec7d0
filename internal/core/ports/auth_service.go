package ports

import (
	"context"

	"github.com/99minutos/onboarding-system/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Position   string
	Department string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
