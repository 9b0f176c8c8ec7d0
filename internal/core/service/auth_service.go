package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/onboarding-system/internal/core/domain"
	"github.com/99minutos/onboarding-system/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo       ports.UserRepository
	lock       ports.RegistrationLocker
	tokens     *TokenIssuer
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
}

// NewAuthService wires the service. A nil lock disables registration
// locking; the unique email index still rejects duplicates.
func NewAuthService(repo ports.UserRepository, lock ports.RegistrationLocker, tokens *TokenIssuer, bcryptCost int, log zerolog.Logger) *AuthService {
	if lock == nil {
		lock = noopLocker{}
	}
	return &AuthService{
		repo:       repo,
		lock:       lock,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	release, err := s.lock.Acquire(ctx, email)
	if err != nil {
		return "", nil, err
	}
	defer release()

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := domain.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := domain.NewUser(email, hash, domain.Profile{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Position:   in.Position,
		Department: in.Department,
	}, s.now())

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(created.ID.Hex())
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", created.ID.Hex()).Msg("user registered")
	return token, created, nil
}

// Login verifies credentials. An unknown email and a wrong password both
// yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !domain.VerifyPassword(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (func(), error) { return func() {}, nil }
