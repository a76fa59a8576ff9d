package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Config describes a bounded exponential backoff schedule.
// With BaseDelay 1s and BackoffFactor 2 the waits are 1s, 2s, 4s, ...
type Config struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt.
	BaseDelay time.Duration

	// BackoffFactor multiplies the wait after every failed retry.
	BackoffFactor float64

	// MaxDelay caps a single wait. Zero means no cap.
	MaxDelay time.Duration
}

// ErrorClassifier reports whether an error is worth retrying.
type ErrorClassifier func(error) bool

// Retrier applies a Config to an operation.
type Retrier struct {
	config      Config
	isRetryable ErrorClassifier
	logger      *slog.Logger
}

// NewRetrier creates a Retrier. A nil classifier retries every error;
// a nil logger falls back to slog.Default().
func NewRetrier(config Config, classifier ErrorClassifier, logger *slog.Logger) *Retrier {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BackoffFactor < 1 {
		config.BackoffFactor = 1
	}
	if config.BaseDelay < 0 {
		config.BaseDelay = 0
	}
	if classifier == nil {
		classifier = func(error) bool { return true }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{
		config:      config,
		isRetryable: classifier,
		logger:      logger,
	}
}

// Config returns the schedule this Retrier applies.
func (r *Retrier) Config() Config {
	return r.config
}

// newBackOff builds a jitter-free exponential schedule from the config.
func (r *Retrier) newBackOff() *backoff.ExponentialBackOff {
	maxInterval := time.Duration(math.MaxInt64)
	if r.config.MaxDelay > 0 {
		maxInterval = r.config.MaxDelay
	}
	initial := r.config.BaseDelay
	if initial > maxInterval {
		initial = maxInterval
	}
	return &backoff.ExponentialBackOff{
		InitialInterval:     initial,
		RandomizationFactor: 0,
		Multiplier:          r.config.BackoffFactor,
		MaxInterval:         maxInterval,
	}
}

// Do runs operation until it succeeds, returns a non-retryable error,
// or MaxAttempts is exhausted. The wait between attempts honours ctx.
func (r *Retrier) Do(ctx context.Context, operation func() error) error {
	attempts := 0
	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			attempts++
			err := operation()
			if err != nil && !r.isRetryable(err) {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		},
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxTries(uint(r.config.MaxAttempts)), //nolint:gosec // clamped to >= 1
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Warn("request failed, retrying",
				"attempt", attempts,
				"max_attempts", r.config.MaxAttempts,
				"retry_in", next,
				"error", err,
			)
		}),
	)

	var permanent *backoff.PermanentError
	switch {
	case err == nil:
		if attempts > 1 {
			r.logger.Debug("operation succeeded after retry", "attempt", attempts)
		}
		return nil
	case errors.As(err, &permanent):
		// The last attempt returns the wrapper as is.
		return permanent.Unwrap()
	case ctx.Err() != nil && errors.Is(err, context.Cause(ctx)):
		return fmt.Errorf("retry cancelled: %w", err)
	case !r.isRetryable(err):
		return err
	default:
		return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
	}
}

// Delay returns the wait that follows the given failed attempt (1-based).
func (r *Retrier) Delay(attempt int) time.Duration {
	b := r.newBackOff()
	b.Reset()
	delay := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		delay = b.NextBackOff()
	}
	return delay
}
