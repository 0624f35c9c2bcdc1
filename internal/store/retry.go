package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// RetryPolicy bounds the attempts of a remote operation. The delay doubles
// after each failed attempt.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy returns the built-in policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: constants.DefaultRetryAttempts,
		Backoff:  constants.DefaultRetryBackoffMillis * time.Millisecond,
	}
}

// Do runs fn until it succeeds, fails with a non-transient error, the
// attempts run out or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, logger *zap.Logger, op string, fn func(ctx context.Context) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.Backoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) || attempt == attempts {
			break
		}

		logger.Warn(fmt.Sprintf("attempt %d of %d failed, retrying in %s", attempt, attempts, delay),
			zap.String("op", op),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

// IsTransient reports whether an error is worth retrying: connection
// failures, timeouts and errors pgx marks safe to retry.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
