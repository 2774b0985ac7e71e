package ratelimit_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deezer/internal/ratelimit"
)

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.waits = append(c.waits, d)
	c.now = c.now.Add(d)

	return nil
}

func (c *fakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]time.Duration(nil), c.waits...)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := ratelimit.New(0, time.Second)
	require.ErrorIs(t, err, ratelimit.ErrInvalidQuota)

	_, err = ratelimit.New(10, 0)
	require.ErrorIs(t, err, ratelimit.ErrInvalidWindow)

	budget, err := ratelimit.New(50, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 50, budget.Snapshot().Remaining)
	assert.Equal(t, 5*time.Second, budget.Window())
}

func TestBudget_ConcurrentCallersNeverExceedQuota(t *testing.T) {
	t.Parallel()

	const (
		quota   = 10
		callers = 50
	)

	budget, err := ratelimit.New(quota, time.Hour)
	require.NoError(t, err)

	var (
		granted atomic.Int32
		denied  atomic.Int32
		wg      sync.WaitGroup
	)

	start := make(chan struct{})

	for range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			<-start

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			if budget.Acquire(ctx) == nil {
				granted.Add(1)
			} else {
				denied.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(quota), granted.Load())
	assert.Equal(t, int32(callers-quota), denied.Load())
	assert.Equal(t, 0, budget.Snapshot().Remaining)
}

func TestBudget_RefillsAtWindowBoundary(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()

	budget, err := ratelimit.New(2, 5*time.Second, ratelimit.WithClock(clock.Now, clock.Wait))
	require.NoError(t, err)

	ctx := context.Background()
	start := clock.Now()

	require.NoError(t, budget.Acquire(ctx))
	require.NoError(t, budget.Acquire(ctx))
	assert.Equal(t, start, clock.Now(), "the first quota is granted without waiting")

	require.NoError(t, budget.Acquire(ctx))
	assert.Equal(t, start.Add(5*time.Second), clock.Now())
	assert.Equal(t, []time.Duration{5 * time.Second}, clock.Waits())

	snapshot := budget.Snapshot()
	assert.Equal(t, 1, snapshot.Remaining)
	assert.Equal(t, start.Add(10*time.Second), snapshot.ResetAt)
}

func TestBudget_PenalizeBlocksUntilResetHint(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()

	budget, err := ratelimit.New(50, 5*time.Second, ratelimit.WithClock(clock.Now, clock.Wait))
	require.NoError(t, err)

	// Simulated 429 with a reset hint of now+5s while the local budget still has slots.
	deadline := clock.Now().Add(5 * time.Second)
	budget.Penalize(deadline)

	assert.False(t, budget.TryAcquire())
	assert.Equal(t, 0, budget.Snapshot().Remaining)

	require.NoError(t, budget.Acquire(context.Background()))
	assert.False(t, clock.Now().Before(deadline), "no slot may be granted before the reset hint")
}

func TestBudget_PenalizeOverridesLongerLocalWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()

	budget, err := ratelimit.New(1, time.Minute, ratelimit.WithClock(clock.Now, clock.Wait))
	require.NoError(t, err)

	require.NoError(t, budget.Acquire(context.Background()))

	hint := clock.Now().Add(2 * time.Second)
	budget.Penalize(hint)

	require.NoError(t, budget.Acquire(context.Background()))
	assert.Equal(t, hint, clock.Now())
}

func TestBudget_PenalizeWithPastHint(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()

	budget, err := ratelimit.New(3, time.Second, ratelimit.WithClock(clock.Now, clock.Wait))
	require.NoError(t, err)

	budget.Penalize(clock.Now().Add(-time.Hour))

	snapshot := budget.Snapshot()
	assert.Equal(t, 3, snapshot.Remaining, "a reset hint in the past refills immediately")
}

func TestBudget_AcquireHonoursContext(t *testing.T) {
	t.Parallel()

	budget, err := ratelimit.New(1, time.Hour)
	require.NoError(t, err)

	require.True(t, budget.TryAcquire())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = budget.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
