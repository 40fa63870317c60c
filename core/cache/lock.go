package cache

import (
	"context"
	"time"

	"weekend-match-api/core/constants"
	"weekend-match-api/core/logger"
)

// WithLock runs fn while holding key. The lock only narrows races that the database
// constraints already resolve, so fn still runs when Redis is unavailable or the lock
// cannot be taken before the retry budget is spent.
func WithLock(ctx context.Context, locker Locker, key string, fn func() error) error {
	if locker == nil {
		return fn()
	}

	var token string
	acquired := false
	for attempt := 0; attempt < constants.LockRetryAttempts; attempt++ {
		t, ok, err := locker.Lock(ctx, key, constants.LockTTL)
		if err != nil {
			logger.Warn("Cache:WithLock:LockError", "key", key, "error", err)
			break
		}
		if ok {
			token, acquired = t, true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(constants.LockRetryDelay):
		}
	}

	if !acquired {
		logger.Warn("Cache:WithLock:NotAcquired", "key", key)
		return fn()
	}

	defer func() {
		if err := locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			logger.Warn("Cache:WithLock:UnlockError", "key", key, "error", err)
		}
	}()
	return fn()
}
