package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginFailurePrefix = "login_failures:"

// LoginAttemptRepository counts failed logins per email inside a window.
type LoginAttemptRepository interface {
	Failures(ctx context.Context, email string) (int64, error)
	RecordFailure(ctx context.Context, email string, window time.Duration) (int64, error)
	Reset(ctx context.Context, email string) error
}

type loginAttemptRepository struct {
	client redis.Cmdable
}

// NewLoginAttemptRepository returns a Redis-backed implementation.
func NewLoginAttemptRepository(client redis.Cmdable) LoginAttemptRepository {
	return &loginAttemptRepository{client: client}
}

func (r *loginAttemptRepository) Failures(ctx context.Context, email string) (int64, error) {
	count, err := r.client.Get(ctx, loginFailureKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}

// RecordFailure increments the counter; the window starts at the first failure.
func (r *loginAttemptRepository) RecordFailure(ctx context.Context, email string, window time.Duration) (int64, error) {
	key := loginFailureKey(email)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (r *loginAttemptRepository) Reset(ctx context.Context, email string) error {
	return r.client.Del(ctx, loginFailureKey(email)).Err()
}

func loginFailureKey(email string) string {
	return loginFailurePrefix + strings.ToLower(strings.TrimSpace(email))
}
