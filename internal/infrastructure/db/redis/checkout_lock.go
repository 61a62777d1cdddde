package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

const defaultLockTTL = time.Minute

// releaseScript deletes the lock only if it still carries our token, so a
// holder whose lease expired cannot free a lock someone else now owns.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CheckoutLocker serialises checkouts per user with a leased Redis key.
// Key format: checkout:lock:<user_id>
type CheckoutLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckoutLocker creates a CheckoutLocker. The TTL must outlast the
// payment timeout plus the order write.
func NewCheckoutLocker(client *redis.Client, ttl time.Duration) *CheckoutLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &CheckoutLocker{client: client, ttl: ttl}
}

// Acquire takes the user's checkout lock or fails with
// domain.ErrCheckoutInProgress.
func (l *CheckoutLocker) Acquire(ctx context.Context, userID string) (func(context.Context) error, error) {
	key := l.key(userID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire checkout lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrCheckoutInProgress
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("release checkout lock: %w", err)
		}
		return nil
	}
	return release, nil
}

func (l *CheckoutLocker) key(userID string) string {
	return fmt.Sprintf("checkout:lock:%s", userID)
}
