// Package resource bounds the memory and IO appetite of index construction.
//
// Building an FM-index over a multi-gigabase genome transiently allocates
// several machine words per base; on shared machines that is the difference
// between a failed build and an OOM-killed process. The Controller turns
// allocation pressure into an explicit, caller-visible reservation step.
package resource

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for managed memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxBuildWorkers is the maximum number of concurrent build jobs.
	// If 0, defaults to 1.
	MaxBuildWorkers int64

	// IOLimitBytesPerSec is the maximum throughput for blob uploads and
	// downloads. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// ExhaustedError reports a reservation that would exceed the memory limit.
type ExhaustedError struct {
	Requested int64
	Limit     int64
	InUse     int64
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("resource: memory reservation of %d bytes exceeds limit %d (%d in use)", e.Requested, e.Limit, e.InUse)
}

// Controller manages global resources (memory, build concurrency, IO).
// A nil Controller is valid and enforces nothing.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	buildSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxBuildWorkers <= 0 {
		cfg.MaxBuildWorkers = 1
	}

	c := &Controller{
		cfg:      cfg,
		buildSem: semaphore.NewWeighted(cfg.MaxBuildWorkers),
	}
	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// ReserveMemory reserves bytes without blocking. A failed reservation
// returns *ExhaustedError; builds surface it instead of allocating anyway.
func (c *Controller) ReserveMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return &ExhaustedError{
			Requested: bytes,
			Limit:     c.cfg.MemoryLimitBytes,
			InUse:     c.memUsed.Load(),
		}
	}
	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases a prior reservation.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireBuild reserves a build slot, blocking until one is free or ctx is
// canceled.
func (c *Controller) AcquireBuild(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.buildSem.Acquire(ctx, 1)
}

// ReleaseBuild releases a build slot.
func (c *Controller) ReleaseBuild() {
	if c == nil {
		return
	}
	c.buildSem.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}
