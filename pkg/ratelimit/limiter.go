// Package ratelimit controls the pace of outbound REST requests so the
// connector stays inside the platform's per-key request quotas. It wraps
// Uber's token bucket limiter behind a small interface that supports
// context-aware waiting and runtime adjustment.
//
// The HTTP client in pkg/common acquires a token from a RateLimiter before
// dispatching every request. The limiter is deliberately client-wide: the
// platform enforces its quota per API key, not per endpoint.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/ratelimit"
)

// Rate is a rate limit expressed as a number of operations per interval,
// e.g. {Limit: 100, Interval: time.Minute} for 100 requests per minute.
type Rate struct {
	// Limit is the maximum number of operations allowed within Interval.
	Limit int

	// Interval is the time window over which Limit applies.
	Interval time.Duration
}

// RateLimiter paces operations according to a configured Rate.
type RateLimiter interface {
	// Wait blocks until an operation is permitted or the context is
	// cancelled. It returns nil once a token has been acquired.
	Wait(ctx context.Context) error

	// SetLimit replaces the current rate configuration. It returns an error
	// if the rate is invalid (non-positive limit or interval).
	SetLimit(limit Rate) error
}

// uberLimiter implements RateLimiter on top of go.uber.org/ratelimit's
// token bucket.
type uberLimiter struct {
	limiter ratelimit.Limiter
	rate    Rate
}

// NewTokenBucketLimiter creates a RateLimiter with the given rate. The rate
// is converted to operations per second for the underlying bucket, so
// {120, time.Minute} becomes 2 ops/sec.
func NewTokenBucketLimiter(rate Rate) RateLimiter {
	return &uberLimiter{
		limiter: ratelimit.New(perSecond(rate)),
		rate:    rate,
	}
}

// perSecond converts a Rate to whole operations per second, clamping to at
// least one so the bucket never stalls completely.
func perSecond(rate Rate) int {
	if rate.Limit <= 0 || rate.Interval <= 0 {
		return 1
	}
	rps := int(float64(rate.Limit) / rate.Interval.Seconds())
	if rps < 1 {
		return 1
	}
	return rps
}

// Wait implements the RateLimiter interface.
func (l *uberLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limit wait cancelled: %w", ctx.Err())
	default:
		l.limiter.Take()
		return nil
	}
}

// SetLimit implements the RateLimiter interface.
func (l *uberLimiter) SetLimit(rate Rate) error {
	if rate.Limit <= 0 || rate.Interval <= 0 {
		return fmt.Errorf("invalid rate limit: %+v", rate)
	}
	l.limiter = ratelimit.New(perSecond(rate))
	l.rate = rate
	return nil
}
