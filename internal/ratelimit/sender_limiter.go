// Package ratelimit provides message-volume limiting and retry backoff.
package ratelimit

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AniketThakur-404/chatapp/internal/sanitize"
)

// SenderLimiter caps how many messages a single WhatsApp sender can have
// processed per minute and per hour. A runaway or abusive number gets its
// messages dropped instead of churning the engine and the send path.
type SenderLimiter struct {
	mu sync.Mutex

	config  SenderLimitConfig
	buckets map[string]*senderBuckets

	logger *zap.Logger
}

type senderBuckets struct {
	minuteBucket *tokenBucket
	hourBucket   *tokenBucket
	lastAccess   time.Time
}

// SenderLimitConfig holds configuration for per-sender limiting.
type SenderLimitConfig struct {
	MaxPerMinute      int           `json:"max_per_minute"`
	MaxPerHour        int           `json:"max_per_hour"`
	CleanupInterval   time.Duration `json:"cleanup_interval"`
	StaleSenderCutoff time.Duration `json:"stale_sender_cutoff"`
}

// DefaultSenderLimitConfig returns defaults sized for a human typing into
// a chat, with headroom for button mashing.
func DefaultSenderLimitConfig() SenderLimitConfig {
	return SenderLimitConfig{
		MaxPerMinute:      20,
		MaxPerHour:        200,
		CleanupInterval:   5 * time.Minute,
		StaleSenderCutoff: 30 * time.Minute,
	}
}

// Errors for sender limiting.
var (
	ErrSenderMinuteLimitExceeded = errors.New("sender minute rate limit exceeded")
	ErrSenderHourLimitExceeded   = errors.New("sender hour rate limit exceeded")
)

// NewSenderLimiter creates a per-sender message limiter.
func NewSenderLimiter(config SenderLimitConfig, logger *zap.Logger) *SenderLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultSenderLimitConfig().CleanupInterval
	}
	if config.StaleSenderCutoff <= 0 {
		config.StaleSenderCutoff = DefaultSenderLimitConfig().StaleSenderCutoff
	}
	sl := &SenderLimiter{
		config:  config,
		buckets: make(map[string]*senderBuckets),
		logger:  logger,
	}

	go sl.cleanup()

	return sl
}

// Allow records a message from the sender and reports whether it may be
// processed. Returns nil if allowed, or an error naming the exceeded
// window.
func (sl *SenderLimiter) Allow(sender string) error {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	now := time.Now()
	b, ok := sl.buckets[sender]
	if !ok {
		b = &senderBuckets{
			minuteBucket: newTokenBucket(sl.config.MaxPerMinute, time.Minute, now),
			hourBucket:   newTokenBucket(sl.config.MaxPerHour, time.Hour, now),
		}
		sl.buckets[sender] = b
	}
	b.lastAccess = now

	if !b.minuteBucket.tryAcquire(now) {
		sl.logger.Warn("sender minute rate limit exceeded",
			zap.String("sender", sanitize.Phone(sender)),
			zap.Int("limit", sl.config.MaxPerMinute),
		)
		return ErrSenderMinuteLimitExceeded
	}

	if !b.hourBucket.tryAcquire(now) {
		b.minuteBucket.release()
		sl.logger.Warn("sender hour rate limit exceeded",
			zap.String("sender", sanitize.Phone(sender)),
			zap.Int("limit", sl.config.MaxPerHour),
		)
		return ErrSenderHourLimitExceeded
	}

	return nil
}

// SenderStats holds remaining allowance for one sender.
type SenderStats struct {
	MinuteRemaining int           `json:"minute_remaining"`
	MinuteMax       int           `json:"minute_max"`
	HourRemaining   int           `json:"hour_remaining"`
	HourMax         int           `json:"hour_max"`
	MinuteResetIn   time.Duration `json:"minute_reset_in"`
}

// Stats returns the remaining allowance for a sender.
func (sl *SenderLimiter) Stats(sender string) SenderStats {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	b, ok := sl.buckets[sender]
	if !ok {
		return SenderStats{
			MinuteRemaining: sl.config.MaxPerMinute,
			MinuteMax:       sl.config.MaxPerMinute,
			HourRemaining:   sl.config.MaxPerHour,
			HourMax:         sl.config.MaxPerHour,
		}
	}

	now := time.Now()
	return SenderStats{
		MinuteRemaining: b.minuteBucket.remaining(),
		MinuteMax:       sl.config.MaxPerMinute,
		HourRemaining:   b.hourBucket.remaining(),
		HourMax:         sl.config.MaxPerHour,
		MinuteResetIn:   b.minuteBucket.resetIn(now),
	}
}

// cleanup removes senders that have gone quiet.
func (sl *SenderLimiter) cleanup() {
	ticker := time.NewTicker(sl.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		sl.mu.Lock()
		now := time.Now()
		for sender, b := range sl.buckets {
			if now.Sub(b.lastAccess) > sl.config.StaleSenderCutoff {
				delete(sl.buckets, sender)
			}
		}
		sl.mu.Unlock()
	}
}
