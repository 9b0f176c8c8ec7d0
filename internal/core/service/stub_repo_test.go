package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/onboarding-system/internal/core/domain"
	"github.com/99minutos/onboarding-system/internal/core/ports"
)

// stubUserRepo is an in-memory UserRepository mirroring the Mongo
// implementation's semantics.
type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]*domain.User
	createErr error
	findErr   error
	creates   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[primitive.ObjectID]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.OnboardingTasks = append([]domain.Task(nil), u.OnboardingTasks...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	stored := cloneUser(user)
	stored.ID = primitive.NewObjectID()
	r.byID[stored.ID] = stored
	r.creates++
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) lookup(id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	u, ok := r.byID[oid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, f ports.ProfileFields, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Profile.FirstName, f.FirstName)
	set(&u.Profile.LastName, f.LastName)
	set(&u.Profile.Position, f.Position)
	set(&u.Profile.Department, f.Department)
	set(&u.Profile.Phone, f.Phone)
	u.UpdatedAt = now
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateTaskStatus(_ context.Context, id, taskID string, status domain.TaskStatus, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	tid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	task, err := u.Task(tid)
	if err != nil {
		return nil, err
	}
	task.Status = status
	u.UpdatedAt = now
	return cloneUser(u), nil
}

type stubLocker struct {
	held map[string]bool
}

func (l *stubLocker) Acquire(_ context.Context, email string) (func(), error) {
	if l.held[email] {
		return nil, domain.ErrUserExists
	}
	l.held[email] = true
	return func() { delete(l.held, email) }, nil
}
