package updater

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/valyala/fastrand"
	"golang.org/x/time/rate"
)

// Completer performs the external operation that marks a single task done.
// Implementations receive a private copy of the task and return the
// completed copy.
type Completer interface {
	Complete(ctx context.Context, task domain.Task) (domain.Task, error)
}

// CompleterFunc adapts an ordinary function to the Completer interface.
type CompleterFunc func(ctx context.Context, task domain.Task) (domain.Task, error)

// Complete calls f(ctx, task).
func (f CompleterFunc) Complete(ctx context.Context, task domain.Task) (domain.Task, error) {
	return f(ctx, task)
}

// DelayFunc returns how long a simulated external call should take.
type DelayFunc func() time.Duration

// FixedDelay always returns d. FixedDelay(0) disables the simulated latency.
func FixedDelay(d time.Duration) DelayFunc {
	return func() time.Duration {
		return d
	}
}

// RandomDelay returns durations uniformly drawn from [lo, hi).
// If hi <= lo, lo is always returned.
func RandomDelay(lo, hi time.Duration) DelayFunc {
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return FixedDelay(lo)
	}

	span := hi - lo
	if span <= time.Duration(math.MaxUint32) {
		return func() time.Duration {
			return lo + time.Duration(fastrand.Uint32n(uint32(span)))
		}
	}

	// Spans beyond ~4.29s fall back to microsecond resolution.
	micros := span / time.Microsecond
	if micros > math.MaxUint32 {
		micros = math.MaxUint32
	}
	return func() time.Duration {
		return lo + time.Duration(fastrand.Uint32n(uint32(micros)))*time.Microsecond
	}
}

// NewRateLimiter builds the limiter shared by every simulated call.
// A non-positive rate means unlimited.
func NewRateLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SimulatedCompleter stands in for a remote call: it waits for the shared
// rate limiter, sleeps for a bounded random interval, then marks the task done.
type SimulatedCompleter struct {
	delay   DelayFunc
	limiter *rate.Limiter
}

// NewSimulatedCompleter creates a SimulatedCompleter. A nil delay means no
// latency and a nil limiter means no rate limit.
func NewSimulatedCompleter(delay DelayFunc, limiter *rate.Limiter) *SimulatedCompleter {
	if delay == nil {
		delay = FixedDelay(0)
	}
	if limiter == nil {
		limiter = NewRateLimiter(0, 0)
	}
	return &SimulatedCompleter{
		delay:   delay,
		limiter: limiter,
	}
}

// Complete implements Completer.
func (c *SimulatedCompleter) Complete(ctx context.Context, task domain.Task) (domain.Task, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return task, fmt.Errorf("rate limit wait: %w", err)
	}

	if d := c.delay(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return task, ctx.Err()
		case <-timer.C:
		}
	}

	task.Complete()
	return task, nil
}
