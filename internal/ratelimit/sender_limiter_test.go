package ratelimit

import (
	"errors"
	"testing"
	"time"
)

func TestSenderLimiter_AllowWithinLimits(t *testing.T) {
	sl := NewSenderLimiter(SenderLimitConfig{
		MaxPerMinute:      3,
		MaxPerHour:        10,
		CleanupInterval:   time.Hour,
		StaleSenderCutoff: time.Hour,
	}, nil)
	for i := 0; i < 3; i++ {
		if err := sl.Allow("+919876543210"); err != nil {
			t.Fatalf("message %d: unexpected error: %v", i+1, err)
		}
	}
}

func TestSenderLimiter_MinuteLimitExceeded(t *testing.T) {
	sl := NewSenderLimiter(SenderLimitConfig{
		MaxPerMinute:      2,
		MaxPerHour:        100,
		CleanupInterval:   time.Hour,
		StaleSenderCutoff: time.Hour,
	}, nil)
	sl.Allow("+919876543210")
	sl.Allow("+919876543210")

	err := sl.Allow("+919876543210")
	if !errors.Is(err, ErrSenderMinuteLimitExceeded) {
		t.Errorf("expected minute limit error, got %v", err)
	}
}

func TestSenderLimiter_HourLimitReleasesMinuteToken(t *testing.T) {
	sl := NewSenderLimiter(SenderLimitConfig{
		MaxPerMinute:      10,
		MaxPerHour:        1,
		CleanupInterval:   time.Hour,
		StaleSenderCutoff: time.Hour,
	}, nil)
	if err := sl.Allow("+919876543210"); err != nil {
		t.Fatalf("first message: %v", err)
	}

	err := sl.Allow("+919876543210")
	if !errors.Is(err, ErrSenderHourLimitExceeded) {
		t.Fatalf("expected hour limit error, got %v", err)
	}

	stats := sl.Stats("+919876543210")
	// The rejected message must not consume a minute token.
	if stats.MinuteRemaining != 9 {
		t.Errorf("minute remaining = %d, want 9", stats.MinuteRemaining)
	}
	if stats.HourRemaining != 0 {
		t.Errorf("hour remaining = %d, want 0", stats.HourRemaining)
	}
}

func TestSenderLimiter_SendersAreIndependent(t *testing.T) {
	sl := NewSenderLimiter(SenderLimitConfig{
		MaxPerMinute:      1,
		MaxPerHour:        10,
		CleanupInterval:   time.Hour,
		StaleSenderCutoff: time.Hour,
	}, nil)
	if err := sl.Allow("+919876543210"); err != nil {
		t.Fatalf("sender a: %v", err)
	}
	if err := sl.Allow("+919876543210"); err == nil {
		t.Error("sender a should be limited")
	}
	if err := sl.Allow("+918765432109"); err != nil {
		t.Errorf("sender b should not be limited: %v", err)
	}
}

func TestSenderLimiter_StatsUnknownSender(t *testing.T) {
	sl := NewSenderLimiter(DefaultSenderLimitConfig(), nil)

	stats := sl.Stats("+910000000000")
	if stats.MinuteRemaining != stats.MinuteMax {
		t.Errorf("unseen sender minute remaining = %d, want %d", stats.MinuteRemaining, stats.MinuteMax)
	}
	if stats.HourRemaining != stats.HourMax {
		t.Errorf("unseen sender hour remaining = %d, want %d", stats.HourRemaining, stats.HourMax)
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	now := time.Now()
	tb := newTokenBucket(2, time.Minute, now)

	if !tb.tryAcquire(now) {
		t.Fatal("first acquire should succeed")
	}
	if !tb.tryAcquire(now) {
		t.Fatal("second acquire should succeed")
	}
	if tb.tryAcquire(now) {
		t.Error("third acquire should fail")
	}

	later := now.Add(time.Minute + time.Second)
	if !tb.tryAcquire(later) {
		t.Error("acquire after window reset should succeed")
	}
	if got := tb.remaining(); got != 1 {
		t.Errorf("remaining = %d, want 1", got)
	}
}

func TestTokenBucket_ResetIn(t *testing.T) {
	now := time.Now()
	tb := newTokenBucket(1, time.Minute, now)

	got := tb.resetIn(now.Add(40 * time.Second))
	if got != 20*time.Second {
		t.Errorf("resetIn = %v, want 20s", got)
	}
	if tb.resetIn(now.Add(2*time.Minute)) != 0 {
		t.Error("resetIn past window should be 0")
	}
}
