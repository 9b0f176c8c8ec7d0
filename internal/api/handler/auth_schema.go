package handler

import "github.com/99minutos/onboarding-system/internal/core/domain"

type registerRequest struct {
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=6"`
	FirstName  string `json:"firstName"  validate:"required"`
	LastName   string `json:"lastName"   validate:"required"`
	Position   string `json:"position"   validate:"required"`
	Department string `json:"department" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    domain.PublicUser `json:"user"`
}

// loginUser is the public user plus the onboarding checklist.
type loginUser struct {
	domain.PublicUser
	OnboardingTasks []domain.Task `json:"onboardingTasks"`
}

type loginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}
