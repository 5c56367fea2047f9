package services

import (
	"context"
	"testing"
	"time"
)

func TestNewRateLimiter_DisabledForNonPositiveRate(t *testing.T) {
	if rl := NewRateLimiter(0); rl != nil {
		t.Error("NewRateLimiter(0) should return nil")
	}
	if rl := NewRateLimiter(-5); rl != nil {
		t.Error("NewRateLimiter(-5) should return nil")
	}
}

func TestRateLimiter_NilNeverBlocks(t *testing.T) {
	var rl *RateLimiter

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	for i := 0; i < 100; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("nil limiter Wait() error = %v", err)
		}
	}
}

func TestRateLimiter_FirstRequestImmediate(t *testing.T) {
	rl := NewRateLimiter(5)

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait() took %v, should be immediate", elapsed)
	}
}

func TestRateLimiter_SecondRequestPaced(t *testing.T) {
	// 600/minute = one token every 100ms, fast enough to test pacing.
	rl := NewRateLimiter(600)

	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("second Wait() returned after %v, expected pacing near 100ms", elapsed)
	}
}

func TestRateLimiter_ContextCancellation(t *testing.T) {
	// One request per minute; the second Wait must block until cancelled.
	rl := NewRateLimiter(1)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); err == nil {
		t.Fatal("expected a context error while waiting for a token")
	}
}
