package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BackoffConfig configures exponential backoff behavior for retried
// operations, currently the outbound message send path.
type BackoffConfig struct {
	// InitialDelay is the first delay duration.
	InitialDelay time.Duration

	// MaxDelay is the maximum delay duration.
	MaxDelay time.Duration

	// Multiplier is the factor to multiply delay by after each retry.
	Multiplier float64

	// MaxRetries is the maximum number of retry attempts (0 = unlimited).
	MaxRetries int

	// Jitter adds randomness to delays to prevent thundering herd
	// (0.0 to 1.0, e.g. 0.1 = +/- 10%).
	Jitter float64

	// RetryableStatusCodes defines which HTTP status codes trigger a retry.
	RetryableStatusCodes []int

	// RespectRetryAfter honors the Retry-After header if present.
	RespectRetryAfter bool
}

// DefaultBackoffConfig returns sensible defaults for Graph API requests.
func DefaultBackoffConfig() *BackoffConfig {
	return &BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		MaxRetries:   3,
		Jitter:       0.2,
		RetryableStatusCodes: []int{
			http.StatusTooManyRequests,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
			http.StatusBadGateway,
			http.StatusRequestTimeout,
		},
		RespectRetryAfter: true,
	}
}

// Backoff provides exponential backoff retry logic.
type Backoff struct {
	config *BackoffConfig
	logger *zap.Logger

	mu    sync.RWMutex
	stats BackoffStats
}

// BackoffStats tracks retry statistics.
type BackoffStats struct {
	TotalAttempts     int64         `json:"total_attempts"`
	TotalRetries      int64         `json:"total_retries"`
	SuccessfulRetries int64         `json:"successful_retries"`
	ExhaustedRetries  int64         `json:"exhausted_retries"`
	TotalDelayTime    time.Duration `json:"total_delay_time"`
	MaxDelayUsed      time.Duration `json:"max_delay_used"`
}

// NewBackoff creates a new Backoff instance.
func NewBackoff(config *BackoffConfig, logger *zap.Logger) *Backoff {
	if config == nil {
		config = DefaultBackoffConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backoff{
		config: config,
		logger: logger,
	}
}

// Errors for backoff.
var (
	ErrMaxRetriesExhausted = errors.New("maximum retries exhausted")
	ErrNotRetryable        = errors.New("error is not retryable")
	ErrContextCanceled     = errors.New("context canceled during backoff")
)

// RetryableError wraps an error with the HTTP status and Retry-After hint
// that shouldRetry and calculateDelay act on.
type RetryableError struct {
	Err        error
	StatusCode int
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %v", e.StatusCode, e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Operation is a function that can be retried.
type Operation func(ctx context.Context) error

// Execute runs an operation with exponential backoff retry logic.
func (b *Backoff) Execute(ctx context.Context, op Operation) error {
	for attempt := 0; ; attempt++ {
		b.mu.Lock()
		b.stats.TotalAttempts++
		b.mu.Unlock()

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrContextCanceled, err)
		}

		err := op(ctx)
		if err == nil {
			if attempt > 0 {
				b.mu.Lock()
				b.stats.SuccessfulRetries++
				b.mu.Unlock()

				b.logger.Info("operation succeeded after retry",
					zap.Int("attempts", attempt+1),
				)
			}
			return nil
		}

		if !b.shouldRetry(err, attempt) {
			b.mu.Lock()
			b.stats.ExhaustedRetries++
			b.mu.Unlock()

			if b.config.MaxRetries > 0 && attempt >= b.config.MaxRetries {
				return fmt.Errorf("%w after %d attempts: %v", ErrMaxRetriesExhausted, attempt+1, err)
			}
			return fmt.Errorf("%w: %v", ErrNotRetryable, err)
		}

		delay := b.calculateDelay(err, attempt)

		b.mu.Lock()
		b.stats.TotalRetries++
		b.stats.TotalDelayTime += delay
		if delay > b.stats.MaxDelayUsed {
			b.stats.MaxDelayUsed = delay
		}
		b.mu.Unlock()

		b.logger.Warn("operation failed, retrying with backoff",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextCanceled, ctx.Err())
		case <-time.After(delay):
		}
	}
}

// shouldRetry determines if an operation should be retried.
func (b *Backoff) shouldRetry(err error, attempt int) bool {
	if b.config.MaxRetries > 0 && attempt >= b.config.MaxRetries {
		return false
	}

	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		for _, code := range b.config.RetryableStatusCodes {
			if retryErr.StatusCode == code {
				return true
			}
		}
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Plain errors (network failures) are retried.
	return true
}

// calculateDelay calculates the delay for the next retry attempt.
func (b *Backoff) calculateDelay(err error, attempt int) time.Duration {
	var retryErr *RetryableError
	if errors.As(err, &retryErr) && b.config.RespectRetryAfter && retryErr.RetryAfter > 0 {
		if retryErr.RetryAfter > b.config.MaxDelay {
			return b.config.MaxDelay
		}
		return retryErr.RetryAfter
	}

	delay := float64(b.config.InitialDelay) * math.Pow(b.config.Multiplier, float64(attempt))

	if b.config.Jitter > 0 {
		jitterRange := delay * b.config.Jitter
		delay += (rand.Float64()*2 - 1) * jitterRange
	}

	if delay > float64(b.config.MaxDelay) {
		delay = float64(b.config.MaxDelay)
	}

	return time.Duration(delay)
}

// Stats returns current backoff statistics.
func (b *Backoff) Stats() BackoffStats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}
