// Package shutdown provides graceful shutdown coordination for the server.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase orders shutdown work. Phases run sequentially; hooks within a
// phase run concurrently.
type Phase int

const (
	// PhaseDrain stops accepting new work and drains in-flight requests.
	PhaseDrain Phase = iota
	// PhaseWorkers stops background workers (limiter janitors, senders).
	PhaseWorkers
	// PhaseCleanup flushes buffers and closes whatever is left.
	PhaseCleanup
)

func (p Phase) String() string {
	switch p {
	case PhaseDrain:
		return "drain"
	case PhaseWorkers:
		return "workers"
	case PhaseCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// hook is a named shutdown function.
type hook struct {
	name string
	fn   func(ctx context.Context) error
}

// Coordinator runs registered shutdown hooks phase by phase under a
// single deadline.
type Coordinator struct {
	mu      sync.Mutex
	hooks   map[Phase][]hook
	timeout time.Duration
	logger  *zap.Logger

	once      sync.Once
	triggered chan struct{}
	done      chan struct{}
	err       error
}

// NewCoordinator creates a coordinator. A zero or negative timeout gets
// a 30 second default.
func NewCoordinator(timeout time.Duration, logger *zap.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coordinator{
		hooks:     make(map[Phase][]hook),
		timeout:   timeout,
		logger:    logger,
		triggered: make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Register adds a named shutdown hook to the given phase. Registration
// after shutdown has started is ignored.
func (c *Coordinator) Register(phase Phase, name string, fn func(ctx context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.triggered:
		c.logger.Warn("hook registered after shutdown started, ignoring",
			zap.String("hook", name))
		return
	default:
	}

	c.hooks[phase] = append(c.hooks[phase], hook{name: name, fn: fn})
}

// Triggered returns a channel closed when shutdown begins.
func (c *Coordinator) Triggered() <-chan struct{} {
	return c.triggered
}

// Shutdown runs all hooks and blocks until they finish or the caller's
// context expires. Safe to call more than once; later calls wait on the
// first run.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		close(c.triggered)
		go c.run()
	})

	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) run() {
	defer close(c.done)

	// The coordinator's own deadline governs the run, not the caller's
	// context, so every phase gets its fair share of the budget.
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	c.logger.Info("starting graceful shutdown", zap.Duration("timeout", c.timeout))

	var errs []error
	for _, phase := range []Phase{PhaseDrain, PhaseWorkers, PhaseCleanup} {
		c.mu.Lock()
		hooks := c.hooks[phase]
		c.mu.Unlock()

		if len(hooks) == 0 {
			continue
		}

		c.logger.Info("shutdown phase",
			zap.String("phase", phase.String()),
			zap.Int("hooks", len(hooks)),
		)

		errs = append(errs, c.runPhase(ctx, phase, hooks)...)

		if ctx.Err() != nil {
			c.logger.Error("shutdown deadline exceeded",
				zap.String("phase", phase.String()),
				zap.Error(ctx.Err()),
			)
			errs = append(errs, fmt.Errorf("phase %s: %w", phase, ctx.Err()))
			break
		}
	}

	c.err = errors.Join(errs...)
	if c.err != nil {
		c.logger.Error("shutdown finished with errors", zap.Error(c.err))
	} else {
		c.logger.Info("graceful shutdown complete")
	}
}

func (c *Coordinator) runPhase(ctx context.Context, phase Phase, hooks []hook) []error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(hooks))

	for _, h := range hooks {
		wg.Add(1)
		go func(h hook) {
			defer wg.Done()

			start := time.Now()
			if err := h.fn(ctx); err != nil {
				c.logger.Error("shutdown hook failed",
					zap.String("hook", h.name),
					zap.String("phase", phase.String()),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err),
				)
				errCh <- fmt.Errorf("%s: %w", h.name, err)
				return
			}

			c.logger.Debug("shutdown hook complete",
				zap.String("hook", h.name),
				zap.String("phase", phase.String()),
				zap.Duration("duration", time.Since(start)),
			)
		}(h)
	}

	wg.Wait()
	close(errCh)

	errs := make([]error, 0, len(hooks))
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}
