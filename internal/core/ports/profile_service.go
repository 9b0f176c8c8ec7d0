package ports

import (
	"context"

	"github.com/99minutos/onboarding-system/internal/core/domain"
)

// ProfileService defines the authenticated self-service operations.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, fields ProfileFields) (*domain.User, error)
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	UpdateTaskStatus(ctx context.Context, userID, taskID, status string) ([]domain.Task, error)
}
