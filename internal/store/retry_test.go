package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "Nil", err: nil, expected: false},
		{name: "Plain error", err: errors.New("syntax error"), expected: false},
		{name: "Network error", err: connRefused(), expected: true},
		{name: "Wrapped network error", err: fmt.Errorf("load: %w", connRefused()), expected: true},
		{name: "Canceled", err: context.Canceled, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.expected {
				t.Errorf("IsTransient() = %t, expected %t", got, tt.expected)
			}
		})
	}
}

func TestRetryPolicyDo(t *testing.T) {
	calls := 0
	err := fastRetry().Do(context.Background(), nil, "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return connRefused()
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("Do() = %v after %d calls, expected success on the third", err, calls)
	}
}

func TestRetryPolicyDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{Attempts: 5, Backoff: time.Hour}

	calls := 0
	err := policy.Do(ctx, nil, "test", func(ctx context.Context) error {
		calls++
		cancel()
		return connRefused()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, expected context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	if p.Attempts != 3 || p.Backoff != 200*time.Millisecond {
		t.Errorf("DefaultRetryPolicy() = %+v", p)
	}
}
