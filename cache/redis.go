package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces assay entries within a shared Redis instance.
const redisKeyPrefix = "assay:valid:"

// Redis is a cache backed by a shared Redis instance, for fleets of
// checkers that want to pool validation work across runs and hosts.
//
// Entries carry a TTL so stale validity ages out on its own. Lookup errors
// (connection loss, timeouts) degrade to "unknown": the engine falls back
// to the verifier chain instead of failing the run.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed cache talking to addr.
// ttl bounds how long a validated href stays known-valid; zero means no
// expiry.
func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// IsValid implements Cache.
func (r *Redis) IsValid(ctx context.Context, href string) (bool, bool) {
	val, err := r.client.Get(ctx, redisKeyPrefix+href).Result()
	if err != nil {
		// redis.Nil (no entry) and transport errors alike mean unknown.
		return false, false
	}
	return val == "1", true
}

// MarkValid implements Recorder. Write failures are dropped: the cache is
// an optimization, and the result that prompted the write is already final.
func (r *Redis) MarkValid(ctx context.Context, href string) {
	_ = r.client.Set(ctx, redisKeyPrefix+href, "1", r.ttl).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Verify interface compliance.
var (
	_ Cache    = (*Redis)(nil)
	_ Recorder = (*Redis)(nil)
)
