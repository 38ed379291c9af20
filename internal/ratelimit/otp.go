// Package ratelimit throttles OTP requests per identifier with redis counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirankshetty/Hackathon-sub000/internal/metrics"
	"github.com/redis/go-redis/v9"
)

var ErrLimited = errors.New("too many OTP requests")

// LimitError carries how long the caller should wait.
type LimitError struct {
	RetryAfter time.Duration
	Reason     string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s; please try again after %d seconds", e.Reason, int(e.RetryAfter.Seconds()))
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimited
}

// Limiter gates OTP requests. Allow is consulted before any lookup; Sent
// starts the cooldown once a code has actually been delivered.
type Limiter interface {
	Allow(ctx context.Context, identifier, purpose string) error
	Sent(ctx context.Context, identifier, purpose string) error
}

// Noop allows every request. Used when redis is not configured.
type Noop struct{}

func (Noop) Allow(context.Context, string, string) error { return nil }
func (Noop) Sent(context.Context, string, string) error { return nil }

type OTPLimiter struct {
	rdb         *redis.Client
	window      time.Duration
	maxInWindow int
	cooldown    time.Duration
}

func NewOTPLimiter(rdb *redis.Client, window time.Duration, max int, cooldown time.Duration) *OTPLimiter {
	return &OTPLimiter{rdb: rdb, window: window, maxInWindow: max, cooldown: cooldown}
}

func keys(identifier, purpose string) (block, last, count string) {
	return fmt.Sprintf("otp:block:%s:%s", identifier, purpose),
		fmt.Sprintf("otp:last:%s:%s", identifier, purpose),
		fmt.Sprintf("otp:count:%s:%s", identifier, purpose)
}

// Allow enforces a block after too many requests in window and the cooldown
// left by the last delivered code.
func (l *OTPLimiter) Allow(ctx context.Context, identifier, purpose string) error {
	blockKey, lastKey, countKey := keys(identifier, purpose)

	if ttl, err := l.rdb.TTL(ctx, blockKey).Result(); err == nil && ttl > 0 {
		metrics.RateLimiterRejections.WithLabelValues("blocked").Inc()
		return &LimitError{RetryAfter: ttl, Reason: "too many OTP requests"}
	}
	if ttl, err := l.rdb.TTL(ctx, lastKey).Result(); err == nil && ttl > 0 {
		metrics.RateLimiterRejections.WithLabelValues("cooldown").Inc()
		return &LimitError{RetryAfter: ttl, Reason: "please wait before requesting another OTP"}
	}

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, countKey)
	pipe.ExpireNX(ctx, countKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("otp rate counter: %w", err)
	}

	if int(incr.Val()) > l.maxInWindow {
		block := l.window * 3
		_ = l.rdb.Set(ctx, blockKey, "1", block).Err()
		metrics.RateLimiterRejections.WithLabelValues("window").Inc()
		return &LimitError{RetryAfter: block, Reason: "too many OTP requests"}
	}
	return nil
}

// Sent starts the per-identifier cooldown.
func (l *OTPLimiter) Sent(ctx context.Context, identifier, purpose string) error {
	if l.cooldown <= 0 {
		return nil
	}
	_, lastKey, _ := keys(identifier, purpose)
	if err := l.rdb.Set(ctx, lastKey, "1", l.cooldown).Err(); err != nil {
		return fmt.Errorf("otp cooldown: %w", err)
	}
	return nil
}

// NewClient connects to redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
