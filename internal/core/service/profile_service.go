package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/onboarding-system/internal/core/domain"
	"github.com/99minutos/onboarding-system/internal/core/ports"
)

// ProfileService serves the authenticated profile and checklist operations.
type ProfileService struct {
	repo ports.UserRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewProfileService(repo ports.UserRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, log: log, now: time.Now}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update. StartDate, email and role cannot
// be changed here.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, fields ports.ProfileFields) (*domain.User, error) {
	if fields.Empty() {
		return s.GetProfile(ctx, userID)
	}

	user, err := s.repo.UpdateProfile(ctx, userID, fields, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return user, nil
}

func (s *ProfileService) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasksOrEmpty(user.OnboardingTasks), nil
}

// UpdateTaskStatus sets one task's status and returns the full checklist.
func (s *ProfileService) UpdateTaskStatus(ctx context.Context, userID, taskID, status string) ([]domain.Task, error) {
	st := domain.TaskStatus(status)
	if !st.Valid() {
		return nil, fmt.Errorf("update task %s: %w %q", taskID, domain.ErrInvalidTaskStatus, status)
	}

	user, err := s.repo.UpdateTaskStatus(ctx, userID, taskID, st, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", taskID, err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("task_id", taskID).
		Str("status", status).
		Msg("task status updated")

	return tasksOrEmpty(user.OnboardingTasks), nil
}

func tasksOrEmpty(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}
