package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{Attempts: attempts, InitialDelay: time.Microsecond, MaxDelay: time.Millisecond, Multiplier: 2}
}

func TestRetryPolicy_Do(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		failures  int
		failWith  error
		wantCalls int
		wantErr   error
	}{
		{name: "succeeds first time", attempts: 5, failures: 0, wantCalls: 1},
		{name: "recovers from conflicts", attempts: 5, failures: 3, failWith: ErrConflictRetryable, wantCalls: 4},
		{name: "gives up after attempts", attempts: 3, failures: 10, failWith: ErrConflictRetryable, wantCalls: 3, wantErr: ErrConflictRetryable},
		{name: "terminal error not retried", attempts: 5, failures: 10, failWith: ErrNotFound, wantCalls: 1, wantErr: ErrNotFound},
		{name: "wrapped conflict retried", attempts: 5, failures: 1, failWith: fmt.Errorf("reorder: %w", ErrConflictRetryable), wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fastPolicy(tt.attempts).Do(context.Background(), "test", func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, calls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRetryPolicy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{Attempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

	calls := 0
	err := policy.Do(ctx, "test", func(context.Context) error {
		calls++
		cancel()
		return ErrConflictRetryable
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryPolicy_NextDelayCapped(t *testing.T) {
	p := RetryPolicy{InitialDelay: 10 * time.Millisecond, MaxDelay: 40 * time.Millisecond, Multiplier: 2}
	want := []time.Duration{10, 20, 40, 40}
	for i, w := range want {
		if got := p.NextDelay(i); got != w*time.Millisecond {
			t.Errorf("attempt %d: expected %v, got %v", i, w*time.Millisecond, got)
		}
	}
}
