package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", config.MaxAttempts)
	}
	if config.InitialBackoff != 200*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 200ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 2*time.Second {
		t.Errorf("MaxBackoff = %v, want 2s", config.MaxBackoff)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		class        ErrorClass
		wantAttempts int
		wantErr      error
	}{
		{"success first try", 0, ErrorClassServer, 1, nil},
		{"server error recovers", 2, ErrorClassServer, 3, nil},
		{"server error exhausts", 5, ErrorClassServer, 3, ErrRetryExhausted},
		{"network error recovers", 1, ErrorClassNetwork, 2, nil},
		{"client error not retried", 5, ErrorClassClient, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := retryWithBackoff(context.Background(), fastRetry(), zerolog.Nop(), func() error {
				attempts++
				if attempts <= tt.failures {
					return &Error{ErrorClass: tt.class, Message: "boom"}
				}
				return nil
			})

			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.class == ErrorClassClient && tt.failures > 0:
				var srcErr *Error
				if !errors.As(err, &srcErr) {
					t.Errorf("Expected *Error for non-retryable failure, got %v", err)
				}
			case err != nil:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRetryWithBackoff_ExhaustedKeepsCause(t *testing.T) {
	cause := &Error{StatusCode: 503, ErrorClass: ErrorClassServer, Message: "unavailable"}
	err := retryWithBackoff(context.Background(), fastRetry(), zerolog.Nop(), func() error {
		return cause
	})

	var srcErr *Error
	if !errors.As(err, &srcErr) || srcErr.StatusCode != 503 {
		t.Errorf("Expected exhausted error to wrap the last *Error, got %v", err)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := fastRetry()
	config.InitialBackoff = time.Second

	attempts := 0
	err := retryWithBackoff(ctx, config, zerolog.Nop(), func() error {
		attempts++
		cancel()
		return &Error{ErrorClass: ErrorClassServer}
	})

	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Expected ErrContextCancelled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
