package handler

import "github.com/99minutos/onboarding-system/internal/core/domain"

// updateProfileRequest fields are pointers so omitted keys stay untouched.
type updateProfileRequest struct {
	FirstName  *string `json:"firstName"  validate:"omitempty,max=100"`
	LastName   *string `json:"lastName"   validate:"omitempty,max=100"`
	Position   *string `json:"position"   validate:"omitempty,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Phone      *string `json:"phone"      validate:"omitempty,max=40"`
}

type updateTaskRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

type updateProfileResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type updateTaskResponse struct {
	Message string        `json:"message"`
	Tasks   []domain.Task `json:"tasks"`
}
