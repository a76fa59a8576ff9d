// Package retry runs an operation under a bounded exponential backoff.
//
// The schedule is deterministic (no jitter): a Retrier configured with
// BaseDelay d and BackoffFactor f waits d, d*f, d*f^2, ... between
// attempts and gives up after MaxAttempts tries. Callers decide which
// errors are transient through an ErrorClassifier.
package retry
