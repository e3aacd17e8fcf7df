package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	xerrors "account-service/pkg/xerrors"
)

// Store is the slice of the cache the limiter needs.
type Store interface {
	Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration) error
	GetTTL(ctx context.Context, namespace, key string) (time.Duration, error)
	IncrWithExpire(ctx context.Context, namespace, key string, window time.Duration) (int64, error)
}

// Limiter throttles verification-code reissues per user: a cooldown between
// consecutive requests plus a windowed cap with an extended block once the
// cap is hit. A zero cooldown disables it.
type Limiter struct {
	store       Store
	window      time.Duration
	maxInWindow int
	cooldown    time.Duration
}

func NewLimiter(store Store, window time.Duration, max int, cooldown time.Duration) *Limiter {
	return &Limiter{store: store, window: window, maxInWindow: max, cooldown: cooldown}
}

func (l *Limiter) CanRequest(ctx context.Context, userID int64) error {
	if l == nil || l.cooldown <= 0 {
		return nil
	}

	id := strconv.FormatInt(userID, 10)
	blockKey := "block:" + id
	lastKey := "last:" + id
	countKey := "count:" + id

	if ttl, _ := l.store.GetTTL(ctx, "code_rate", blockKey); ttl > 0 {
		return fmt.Errorf("%w: try again after %d seconds", xerrors.ErrTooManyCodeRequests, int(ttl.Seconds()))
	}

	if ttl, _ := l.store.GetTTL(ctx, "code_rate", lastKey); ttl > 0 {
		return fmt.Errorf("%w: wait %d seconds before requesting another code", xerrors.ErrTooManyCodeRequests, int(ttl.Seconds()))
	}

	cnt, err := l.store.IncrWithExpire(ctx, "code_rate", countKey, l.window)
	if err != nil {
		return err
	}

	if int(cnt) > l.maxInWindow {
		_ = l.store.Set(ctx, "code_rate", blockKey, "1", l.window*3)
		return fmt.Errorf("%w: try again after %d seconds", xerrors.ErrTooManyCodeRequests, int((l.window * 3).Seconds()))
	}

	_ = l.store.Set(ctx, "code_rate", lastKey, "1", l.cooldown)

	return nil
}
