package ai

import (
	"errors"
	"testing"
	"time"

	"talentmatch/internal/config"
	tmerrors "talentmatch/internal/errors"

	"google.golang.org/genai"
)

func newTestLogger() *tmerrors.Logger {
	logger, _ := tmerrors.New("error")
	return logger
}

func enabledBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestNewAICircuitBreaker(t *testing.T) {
	cb := NewAICircuitBreaker("assess", enabledBreakerConfig(), nil)
	if cb == nil {
		t.Fatal("expected circuit breaker when enabled")
	}

	stats := cb.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-assess" {
		t.Errorf("Expected circuit breaker name 'AI-assess', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	enabled, ok := stats["enabled"].(bool)
	if !ok {
		t.Fatal("Circuit breaker enabled status not found")
	}
	if !enabled {
		t.Error("Circuit breaker should be enabled")
	}

	if !cb.IsHealthy() {
		t.Error("Fresh circuit breaker should be healthy")
	}
}

func TestDisabledCircuitBreakerIsNil(t *testing.T) {
	cfg := enabledBreakerConfig()
	cfg.Enabled = false

	cb := NewAICircuitBreaker("assess", cfg, nil)
	if cb != nil {
		t.Fatal("expected nil circuit breaker when disabled")
	}

	// Nil breakers pass calls straight through
	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !called {
		t.Error("Execute should invoke the function when breaker is nil")
	}

	if !cb.IsHealthy() {
		t.Error("Nil circuit breaker should report healthy")
	}

	stats := cb.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("Nil circuit breaker stats should report enabled=false")
	}
}

func TestCircuitBreakerTripsAfterFailures(t *testing.T) {
	cfg := config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}

	logger := newTestLogger()
	cb := NewAICircuitBreaker("assess", cfg, logger)

	failing := func() (*genai.GenerateContentResponse, error) {
		return nil, errors.New("upstream unavailable")
	}

	for range 3 {
		_, _ = cb.Execute(failing)
	}

	if cb.IsHealthy() {
		t.Error("Circuit breaker should trip after repeated failures")
	}

	stats := cb.GetStats()
	if state, _ := stats["state"].(string); state != "open" {
		t.Errorf("Expected state 'open' after failures, got '%s'", state)
	}
}

func TestModelCircuitBreaker(t *testing.T) {
	cb := NewModelCircuitBreaker("assess", enabledBreakerConfig(), nil)
	if cb == nil {
		t.Fatal("expected model circuit breaker when enabled")
	}

	stats := cb.GetModelStats()
	if name, _ := stats["name"].(string); name != "AI-Model-assess" {
		t.Errorf("Expected name 'AI-Model-assess', got '%s'", name)
	}

	if !cb.IsModelHealthy() {
		t.Error("Fresh model circuit breaker should be healthy")
	}
}
