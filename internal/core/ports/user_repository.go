package ports

import (
	"context"
	"time"

	"github.com/99minutos/onboarding-system/internal/core/domain"
)

// ProfileFields carries a partial profile update. Nil fields are left
// untouched.
type ProfileFields struct {
	FirstName  *string
	LastName   *string
	Position   *string
	Department *string
	Phone      *string
}

// Empty reports whether no field is set.
func (f ProfileFields) Empty() bool {
	return f.FirstName == nil && f.LastName == nil && f.Position == nil &&
		f.Department == nil && f.Phone == nil
}

// UserRepository defines persistence operations for users and their embedded
// onboarding tasks.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile applies fields to the user's profile and returns the
	// updated record.
	UpdateProfile(ctx context.Context, id string, fields ProfileFields, now time.Time) (*domain.User, error)
	// UpdateTaskStatus sets the status of one embedded task in place. It
	// returns domain.ErrTaskNotFound when the user has no task with taskID.
	UpdateTaskStatus(ctx context.Context, id, taskID string, status domain.TaskStatus, now time.Time) (*domain.User, error)
}

// RegistrationLocker serialises concurrent registrations of the same email.
type RegistrationLocker interface {
	// Acquire returns domain.ErrUserExists if another registration for email
	// is in flight. The returned release func must be called when done.
	Acquire(ctx context.Context, email string) (release func(), err error)
}
