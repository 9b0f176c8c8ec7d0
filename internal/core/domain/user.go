package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleEmployee is assigned to every account created through registration.
const RoleEmployee = "employee"

// Profile holds the personal and organisational details of an employee.
// StartDate is fixed when the account is created.
type Profile struct {
	FirstName  string    `json:"firstName" bson:"firstName"`
	LastName   string    `json:"lastName" bson:"lastName"`
	Position   string    `json:"position" bson:"position"`
	Department string    `json:"department" bson:"department"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	StartDate  time.Time `json:"startDate" bson:"startDate"`
}

// User is the aggregate root: the account, its profile and the onboarding
// checklist it owns.
type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email           string             `json:"email" bson:"email"`
	PasswordHash    string             `json:"-" bson:"passwordHash"`
	Profile         Profile            `json:"profile" bson:"profile"`
	Role            string             `json:"role" bson:"role"`
	OnboardingTasks []Task             `json:"onboardingTasks" bson:"onboardingTasks"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PublicUser is the projection returned right after registration.
type PublicUser struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Profile Profile `json:"profile"`
	Role    string  `json:"role"`
}

// NewUser builds an unsaved user with the default role and the seeded
// onboarding checklist.
func NewUser(email, passwordHash string, profile Profile, now time.Time) *User {
	now = now.UTC()
	profile.StartDate = now
	return &User{
		Email:           NormalizeEmail(email),
		PasswordHash:    passwordHash,
		Profile:         profile,
		Role:            RoleEmployee,
		OnboardingTasks: SeedTasks(now),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// index agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EffectiveRole returns the stored role, falling back to RoleEmployee for
// records written without one.
func (u *User) EffectiveRole() string {
	if u.Role == "" {
		return RoleEmployee
	}
	return u.Role
}

// Public strips the password hash and the task list.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:      u.ID.Hex(),
		Email:   u.Email,
		Profile: u.Profile,
		Role:    u.EffectiveRole(),
	}
}

// Task returns the task with the given id, or ErrTaskNotFound.
func (u *User) Task(id primitive.ObjectID) (*Task, error) {
	for i := range u.OnboardingTasks {
		if u.OnboardingTasks[i].ID == id {
			return &u.OnboardingTasks[i], nil
		}
	}
	return nil, ErrTaskNotFound
}
