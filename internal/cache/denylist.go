package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	denylistPrefix = "session:revoked:"

	// DefaultRevokeTTL bounds how long a revoked session id is remembered
	// when the session itself has no expiry.
	DefaultRevokeTTL = 30 * 24 * time.Hour
)

// Denylist records session ids that were logged out so a replayed cookie
// is treated as anonymous.
type Denylist struct {
	cache Cache
}

func NewDenylist(c Cache) *Denylist {
	return &Denylist{cache: c}
}

// Revoke marks id as revoked for ttl (DefaultRevokeTTL when ttl <= 0).
func (d *Denylist) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if id == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultRevokeTTL
	}
	if err := d.cache.Set(ctx, denylistPrefix+id, "1", ttl).Err(); err != nil {
		return fmt.Errorf("Revoke: %w", err)
	}
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	err := d.cache.Get(ctx, denylistPrefix+id).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("IsRevoked: %w", err)
	}
}
