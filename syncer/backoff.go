package syncer

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/parley-im/parley/types"
)

// Backoff controls how failed sync requests are retried with
// exponential delay. The coordinator itself is stateless with respect
// to retry timing; callers drive re-issues through Execute or by
// sleeping NextDelay between attempts.
type Backoff struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// DefaultBackoff returns a Backoff with the delays the run loop uses:
// 5 attempts, 1s initial delay, 2x multiplier, 30s max delay.
func DefaultBackoff() *Backoff {
	return &Backoff{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		MaxDelay:     30 * time.Second,
	}
}

// ShouldRetry reports whether the error is retryable and the attempt
// count has not exceeded MaxAttempts.
func (b *Backoff) ShouldRetry(err error, attempt int) bool {
	if attempt > b.MaxAttempts {
		return false
	}
	return isRetryable(err)
}

// isRetryable classifies errors. Transport failures and transient
// server statuses retry; an expired session or a rejected request does
// not, the caller has to change something first. Unknown errors default
// to retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		switch srvErr.Status {
		case types.ResponseStatusReloadSession, types.ResponseStatusInvalidRequest:
			return false
		}
	}
	return true
}

// NextDelay returns the delay before the given attempt (1-indexed):
// InitialDelay * Multiplier^(attempt-1), capped at MaxDelay.
func (b *Backoff) NextDelay(attempt int) time.Duration {
	delay := float64(b.InitialDelay) * math.Pow(b.Multiplier, float64(attempt-1))
	if delay > float64(b.MaxDelay) {
		return b.MaxDelay
	}
	return time.Duration(delay)
}

// Execute runs fn up to MaxAttempts times, sleeping between retries.
// Returns nil on success, ctx.Err() on cancellation, or the last error
// when attempts run out or the error is not retryable.
func (b *Backoff) Execute(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !b.ShouldRetry(err, attempt) {
			return err
		}
		if attempt < b.MaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.NextDelay(attempt)):
			}
		}
	}
	return lastErr
}
