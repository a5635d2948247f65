// Package ratelimit counts login attempts per client in fixed windows.
// A Limiter with a nil store allows everything, so deployments without
// Redis run unthrottled.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store is the subset of Redis commands the limiter needs.
type Store interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Del(ctx context.Context, keys ...string) error
}

type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.store != nil && l.max > 0
}

// CheckLogin records one attempt for ip and reports whether it is allowed
// plus the seconds until the window resets when it is not. Store failures
// fail open.
func (l *Limiter) CheckLogin(ctx context.Context, ip string) (bool, int, error) {
	if !l.Enabled() {
		return true, 0, nil
	}

	key := loginKey(ip)

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		return true, 0, err
	}

	if count == 1 {
		if err := l.store.Expire(ctx, key, l.window); err != nil {
			return true, 0, err
		}
	}

	if count <= int64(l.max) {
		return true, 0, nil
	}

	retry := int(l.window.Seconds())
	if ttl, err := l.store.TTL(ctx, key); err == nil && ttl > 0 {
		retry = int(ttl.Seconds())
	}
	if retry < 1 {
		retry = 1
	}

	return false, retry, nil
}

// ResetLogin clears the counter after a successful login.
func (l *Limiter) ResetLogin(ctx context.Context, ip string) error {
	if !l.Enabled() {
		return nil
	}
	return l.store.Del(ctx, loginKey(ip))
}

func loginKey(ip string) string {
	return fmt.Sprintf("taskhive:rate:login:%s", ip)
}
