package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out short-lived exclusive locks on resources.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocker creates a Locker. A non-positive ttl falls back to TTLLock.
func NewLocker(cache *Cache, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = TTLLock
	}
	return &Locker{client: cache.Client(), ttl: ttl}
}

// TryLock takes the lock on resource if nobody holds it. The returned
// release function is a no-op when ok is false.
func (l *Locker) TryLock(ctx context.Context, resource string) (release func(), ok bool, err error) {
	key := LockKey(resource)
	token := uuid.NewString()

	ok, err = l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("lock %s: %w", resource, err)
	}
	if !ok {
		return func() {}, false, nil
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}, true, nil
}
