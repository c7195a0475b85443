// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// defaultRetryDelay is used when a Retrying has no BaseDelay.
// Tests override it to avoid real sleeps.
var defaultRetryDelay = 2 * time.Second

// Retrying wraps a Completer with a per-call timeout and exponential
// backoff with jitter for transient failures. Blocked or empty responses
// are returned at once.
type Retrying struct {
	Next       Completer
	MaxRetries int
	BaseDelay  time.Duration
	Timeout    time.Duration
	Logger     *slog.Logger
}

func (r *Retrying) Complete(ctx context.Context, prompt string) (string, error) {
	base := r.BaseDelay
	if base <= 0 {
		base = defaultRetryDelay
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for attempt := 0; ; attempt++ {
		text, err := r.once(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if permanent(err) || attempt >= r.MaxRetries || ctx.Err() != nil {
			return "", asServiceError(err)
		}

		// delay = base * 2^attempt * [0.5, 1.0)
		backoff := float64(base) * math.Pow(2, float64(attempt)) * (0.5 + rand.Float64()*0.5)
		delay := time.Duration(backoff)
		logger.Warn("text service call failed, retrying",
			"attempt", attempt+1,
			"max_retries", r.MaxRetries,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return "", &ServiceError{Provider: "ai", Op: "retry", Err: ctx.Err()}
		case <-time.After(delay):
		}
	}
}

func (r *Retrying) once(ctx context.Context, prompt string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.Next.Complete(ctx, prompt)
}

// Close closes the wrapped completer when it holds resources.
func (r *Retrying) Close() error {
	if c, ok := r.Next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func asServiceError(err error) error {
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Provider: "ai", Op: "complete", Err: err}
}
