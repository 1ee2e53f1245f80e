package ordering

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redisClient connects to REDIS_ADDR or skips the test.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLockerRenewsLeaseWhileHeld(t *testing.T) {
	client := redisClient(t)
	ctx := context.Background()
	key := Key("block", uint(time.Now().UnixNano()%1e9))
	t.Cleanup(func() { client.Del(ctx, key) })

	l := NewRedisLocker(client, 300*time.Millisecond)
	unlock, err := l.Lock(ctx, key)
	require.NoError(t, err)

	// Held well past the ttl.
	time.Sleep(time.Second)
	n, err := client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = NewRedisLocker(client, 300*time.Millisecond).Lock(waitCtx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	n, err = client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
