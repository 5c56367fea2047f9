package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewCircuitBreakerRegistry(t *testing.T) {
	config := CircuitBreakerConfig{
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
	}

	registry := NewCircuitBreakerRegistry(config)
	if registry == nil {
		t.Fatal("expected registry to be created")
	}
	if registry.breakers == nil {
		t.Error("expected breakers map to be initialized")
	}
	if registry.config != config {
		t.Error("expected config to be set")
	}
}

func TestCircuitBreakerRegistry_GetBreaker(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	breaker1 := registry.GetBreaker("market-data")
	if breaker1 == nil {
		t.Fatal("expected breaker to be created")
	}
	if breaker2 := registry.GetBreaker("market-data"); breaker1 != breaker2 {
		t.Error("expected same breaker instance for the same name")
	}
	if breaker3 := registry.GetBreaker("news"); breaker1 == breaker3 {
		t.Error("expected different breaker for a different name")
	}
}

func TestCircuitBreakerRegistry_Execute(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	result, err := registry.Execute(ctx, "market-data", func() (any, error) {
		return "ok", nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}

	wantErr := errors.New("upstream failure")
	if _, err := registry.Execute(ctx, "market-data", func() (any, error) {
		return nil, wantErr
	}); !errors.Is(err, wantErr) {
		t.Errorf("expected the upstream error, got %v", err)
	}
}

func TestCircuitBreakerRegistry_Execute_ContextCanceled(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := registry.Execute(ctx, "market-data", func() (any, error) {
		return "should not reach", nil
	})
	if err == nil {
		t.Error("expected error due to cancelled context")
	}
}

func TestCircuitBreakerRegistry_Status(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	_, _ = registry.Execute(ctx, BreakerAlphaVantage, func() (any, error) {
		return "ok", nil
	})
	_, _ = registry.Execute(ctx, BreakerAlpaca, func() (any, error) {
		return nil, errors.New("fail")
	})

	status := registry.Status()
	if len(status) != 2 {
		t.Fatalf("expected 2 breakers in status, got %d", len(status))
	}
	if status[BreakerAlphaVantage].TotalSuccesses != 1 {
		t.Errorf("expected 1 success for %s, got %d", BreakerAlphaVantage, status[BreakerAlphaVantage].TotalSuccesses)
	}
	if status[BreakerAlphaVantage].State != "closed" {
		t.Errorf("expected %s to be closed, got %s", BreakerAlphaVantage, status[BreakerAlphaVantage].State)
	}
	if status[BreakerAlpaca].TotalFailures != 1 {
		t.Errorf("expected 1 failure for %s, got %d", BreakerAlpaca, status[BreakerAlpaca].TotalFailures)
	}
}

func TestCircuitBreakerRegistry_TripsAfterFailures(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	// ReadyToTrip requires at least 5 requests with a 50% failure rate.
	for i := 0; i < 5; i++ {
		_, _ = registry.Execute(ctx, "failing-service", func() (any, error) {
			return nil, errors.New("fail")
		})
	}

	status := registry.Status()
	if status["failing-service"].State != "open" {
		t.Fatalf("expected breaker to be open, got %s", status["failing-service"].State)
	}

	executed := false
	_, err := registry.Execute(ctx, "failing-service", func() (any, error) {
		executed = true
		return "should not execute", nil
	})
	if err == nil {
		t.Error("expected error from an open breaker")
	}
	if executed {
		t.Error("open breaker should not run the function")
	}
}

func TestWithCircuitBreaker_TypedResults(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))
	ctx := context.Background()

	result, err := WithCircuitBreaker(ctx, "typed-test", func() ([]int, error) {
		return []int{1, 2, 3}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("expected 3 items, got %d", len(result))
	}

	wantErr := errors.New("typed failure")
	zero, err := WithCircuitBreaker(ctx, "typed-test", func() (string, error) {
		return "partial", wantErr
	})
	if err == nil {
		t.Error("expected error")
	}
	if zero != "" {
		t.Errorf("expected zero value on error, got %q", zero)
	}
}

func TestCircuitBreakerRegistry_GetBreaker_Concurrent(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			registry.GetBreaker("concurrent-breaker")
		}()
	}
	wg.Wait()

	if status := registry.Status(); len(status) != 1 {
		t.Errorf("expected 1 breaker, got %d", len(status))
	}
}
