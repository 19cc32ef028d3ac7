package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoginAttempts(t *testing.T) (LoginAttemptRepository, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLoginAttemptRepository(client), mr
}

func TestLoginAttemptRepository_CountsWithinWindow(t *testing.T) {
	repo, mr := newTestLoginAttempts(t)
	ctx := context.Background()

	count, err := repo.Failures(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Zero(t, count)

	for i := int64(1); i <= 3; i++ {
		count, err = repo.RecordFailure(ctx, "A@x.com ", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	count, err = repo.Failures(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, 15*time.Minute, mr.TTL("login_failures:a@x.com"))

	mr.FastForward(16 * time.Minute)

	count, err = repo.Failures(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLoginAttemptRepository_Reset(t *testing.T) {
	repo, mr := newTestLoginAttempts(t)
	ctx := context.Background()

	_, err := repo.RecordFailure(ctx, "a@x.com", time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Reset(ctx, "a@x.com"))

	assert.False(t, mr.Exists("login_failures:a@x.com"))
}

func TestLoginAttemptRepository_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err = NewLoginAttemptRepository(client).Failures(context.Background(), "a@x.com")
	assert.Error(t, err)
}
