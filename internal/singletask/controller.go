// Package singletask implements a single-slot coalescing task controller.
//
// Requests are queued; an idle controller starts one worker that drains the
// whole queue, hands the drained batch to a process function and passes the
// result to a handler. Requests that arrive while the worker is busy are
// picked up by the next pass of the same worker, so at most one process call
// is ever in flight and every pass sees the most recent requests.
package singletask

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/Iron-Ham/lightgit/internal/logging"
)

// ProcessFunc computes a result for one drained batch. The batch is never
// empty and is ordered oldest first. ctx is cancelled when the controller is
// closed.
type ProcessFunc[T, R any] func(ctx context.Context, batch []T) R

// HandleFunc receives the result of each completed pass.
type HandleFunc[R any] func(R)

// Controller runs at most one ProcessFunc at a time over coalesced requests.
type Controller[T, R any] struct {
	name    string
	process ProcessFunc[T, R]
	handle  HandleFunc[R]
	logger  *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	idle     *sync.Cond
	requests []T
	running  bool
	closed   bool
	passes   int

	wg conc.WaitGroup
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger *logging.Logger
}

// WithLogger sets the logger used for pass tracing and recovered panics.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a Controller. name identifies the controller in logs.
func New[T, R any](name string, process ProcessFunc[T, R], handle HandleFunc[R], opts ...Option) *Controller[T, R] {
	o := options{logger: logging.NopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller[T, R]{
		name:    name,
		process: process,
		handle:  handle,
		logger:  o.logger.With("controller", name),
		ctx:     ctx,
		cancel:  cancel,
	}
	c.idle = sync.NewCond(&c.mu)
	return c
}

// Request queues reqs and starts a worker if none is running. It never
// blocks on processing. Requests made after Close are ignored.
func (c *Controller[T, R]) Request(reqs ...T) {
	if len(reqs) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.requests = append(c.requests, reqs...)
	if c.running {
		return
	}
	c.running = true
	c.wg.Go(c.run)
}

func (c *Controller[T, R]) run() {
	for {
		c.mu.Lock()
		if c.closed || len(c.requests) == 0 {
			c.running = false
			c.idle.Broadcast()
			c.mu.Unlock()
			return
		}
		batch := c.requests
		c.requests = nil
		c.passes++
		pass := c.passes
		c.mu.Unlock()

		c.logger.Debug("processing batch", "pass", pass, "size", len(batch))

		var result R
		ok := c.try("process", func() {
			result = c.process(c.ctx, batch)
		})
		if !ok {
			continue
		}

		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			c.logger.Debug("discarding result after close", "pass", pass)
			continue
		}

		c.try("handle", func() {
			c.handle(result)
		})
	}
}

// try runs f and reports whether it returned without panicking.
func (c *Controller[T, R]) try(stage string, f func()) bool {
	var pc panics.Catcher
	pc.Try(f)
	if r := pc.Recovered(); r != nil {
		c.logger.Error("task panicked",
			"stage", stage,
			"panic", r.Value,
			"stack", string(r.Stack),
		)
		return false
	}
	return true
}

// Close drops pending requests and stops the controller. A process call in
// flight is allowed to finish but its result is not handled. Close does not
// wait for the worker; use CloseAndWait for that.
func (c *Controller[T, R]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.requests = nil
	c.cancel()
}

// CloseAndWait closes the controller and blocks until the worker exits.
func (c *Controller[T, R]) CloseAndWait() {
	c.Close()
	c.wg.Wait()
}

// Wait blocks until no worker is running. New requests made concurrently
// with Wait may extend the wait.
func (c *Controller[T, R]) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.running {
		c.idle.Wait()
	}
}

// Busy reports whether a worker is running.
func (c *Controller[T, R]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Pending returns the number of queued requests not yet drained.
func (c *Controller[T, R]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// Closed reports whether Close has been called.
func (c *Controller[T, R]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Name returns the controller's name.
func (c *Controller[T, R]) Name() string {
	return c.name
}
