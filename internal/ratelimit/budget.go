// Package ratelimit implements the fixed window call budget shared by every
// request of a client.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrInvalidQuota  = errors.New("quota must be positive")
	ErrInvalidWindow = errors.New("window must be positive")
)

// Limiter is what the transport needs from a budget.
type Limiter interface {
	Acquire(ctx context.Context) error
	Penalize(until time.Time)
}

// Snapshot is a point-in-time view of a Budget.
type Snapshot struct {
	Quota     int
	Remaining int
	ResetAt   time.Time
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Budget grants at most quota slots per window. When the budget is empty,
// Acquire suspends the caller until the reset time; the lock is never held
// while waiting. Remaining never goes below zero.
type Budget struct {
	mu        sync.Mutex
	quota     int
	window    time.Duration
	remaining int
	resetAt   time.Time

	now  func() time.Time
	wait WaitFunc
}

// Option configures a Budget.
type Option func(*Budget)

// WithClock replaces the time source and the wait function, for tests.
func WithClock(now func() time.Time, wait WaitFunc) Option {
	return func(b *Budget) {
		if now != nil {
			b.now = now
		}

		if wait != nil {
			b.wait = wait
		}
	}
}

// New creates a full budget of quota calls per window.
func New(quota int, window time.Duration, opts ...Option) (*Budget, error) {
	if quota <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuota, quota)
	}

	if window <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWindow, window)
	}

	b := &Budget{
		quota:     quota,
		window:    window,
		remaining: quota,
		now:       time.Now,
		wait:      sleepContext,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.resetAt = b.now().Add(window)

	return b, nil
}

// Acquire takes one slot, waiting for the window to reset if none is left.
func (b *Budget) Acquire(ctx context.Context) error {
	for {
		wait, ok := b.tryAcquire()
		if ok {
			return nil
		}

		err := b.wait(ctx, wait)
		if err != nil {
			return fmt.Errorf("waiting for rate limit reset: %w", err)
		}
	}
}

// TryAcquire takes one slot without waiting.
func (b *Budget) TryAcquire() bool {
	_, ok := b.tryAcquire()

	return ok
}

func (b *Budget) tryAcquire() (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.refillLocked(now)

	if b.remaining > 0 {
		b.remaining--

		return 0, true
	}

	return b.resetAt.Sub(now), false
}

func (b *Budget) refillLocked(now time.Time) {
	if now.Before(b.resetAt) {
		return
	}

	b.remaining = b.quota
	b.resetAt = now.Add(b.window)
}

// Penalize empties the budget until the upstream reset hint, replacing the
// local window estimate even when the hint is earlier.
func (b *Budget) Penalize(until time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if until.Before(now) {
		until = now
	}

	b.remaining = 0
	b.resetAt = until
}

// Snapshot returns the current state without consuming a slot.
func (b *Budget) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked(b.now())

	return Snapshot{
		Quota:     b.quota,
		Remaining: b.remaining,
		ResetAt:   b.resetAt,
	}
}

// Window returns the configured window.
func (b *Budget) Window() time.Duration {
	return b.window
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
