package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/99minutos/onboarding-system/internal/core/domain"
)

const defaultLockTTL = 10 * time.Second

// releaseScript deletes the lock only if it still holds our token, so a
// registration that outlived its TTL cannot drop someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RegistrationLock serialises concurrent registrations of one email.
// Key format: register:<email>
type RegistrationLock struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRegistrationLock wraps client. A non-positive ttl uses defaultLockTTL.
func NewRegistrationLock(client redis.Cmdable, ttl time.Duration) *RegistrationLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RegistrationLock{client: client, ttl: ttl}
}

// Acquire takes the lock for email. It returns domain.ErrUserExists when
// another registration for the same email holds it.
func (l *RegistrationLock) Acquire(ctx context.Context, email string) (func(), error) {
	key := lockKey(email)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("registration lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrUserExists
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, nil
}

func lockKey(email string) string {
	return fmt.Sprintf("register:%s", domain.NormalizeEmail(email))
}
