// Package resource bounds the memory, concurrency, and IO throughput that
// cube workloads may consume. A single Controller is typically shared by
// every component of a process: dense allocations reserve memory against
// it, mapped-file flushes and snapshot uploads take worker slots, and the
// byte streams they produce are throttled against its IO budget.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Limits configures a Controller. Zero values disable the corresponding
// bound.
type Limits struct {
	// MemoryBudgetBytes caps the bytes of cube storage reserved through
	// the controller. Zero tracks usage without enforcing a cap.
	MemoryBudgetBytes int64

	// MaxFlushWorkers caps the number of concurrent flush and snapshot
	// jobs. Zero or negative means one at a time.
	MaxFlushWorkers int64

	// ThroughputBytesPerSec caps the IO rate of throttled streams.
	// Zero means unthrottled.
	ThroughputBytesPerSec int64
}

// Controller enforces Limits. A nil Controller enforces nothing, so
// callers can thread one through unconditionally.
type Controller struct {
	memBudget *semaphore.Weighted // nil when uncapped
	memUsed   atomic.Int64

	flushSlots *semaphore.Weighted

	ioLimiter *rate.Limiter // nil when unthrottled
}

// NewController builds a Controller for the given limits.
func NewController(limits Limits) *Controller {
	if limits.MaxFlushWorkers <= 0 {
		limits.MaxFlushWorkers = 1
	}

	c := &Controller{
		flushSlots: semaphore.NewWeighted(limits.MaxFlushWorkers),
	}

	if limits.MemoryBudgetBytes > 0 {
		c.memBudget = semaphore.NewWeighted(limits.MemoryBudgetBytes)
	}

	if limits.ThroughputBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(limits.ThroughputBytesPerSec), int(limits.ThroughputBytesPerSec))
	}

	return c
}

// ReserveMemory blocks until the given bytes fit inside the budget or ctx
// is canceled.
func (c *Controller) ReserveMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memBudget != nil {
		if err := c.memBudget.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)

	return nil
}

// TryReserveMemory reserves without blocking. It reports whether the
// reservation fit.
func (c *Controller) TryReserveMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memBudget != nil && !c.memBudget.TryAcquire(bytes) {
		return false
	}

	c.memUsed.Add(bytes)

	return true
}

// ReleaseMemory returns a prior reservation to the budget.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memBudget != nil {
		c.memBudget.Release(bytes)
	}

	c.memUsed.Add(-bytes)
}

// MemoryInUse returns the bytes currently reserved.
func (c *Controller) MemoryInUse() int64 {
	if c == nil {
		return 0
	}

	return c.memUsed.Load()
}

// AcquireWorker blocks until a flush worker slot is free.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}

	return c.flushSlots.Acquire(ctx, 1)
}

// TryAcquireWorker takes a worker slot without blocking.
func (c *Controller) TryAcquireWorker() bool {
	if c == nil {
		return true
	}

	return c.flushSlots.TryAcquire(1)
}

// ReleaseWorker returns a worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}

	c.flushSlots.Release(1)
}

// WaitIO blocks until the throughput limit admits the given bytes.
func (c *Controller) WaitIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil || bytes <= 0 {
		return nil
	}

	return c.ioLimiter.WaitN(ctx, bytes)
}
