package ai

import (
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/config"
)

func TestCircuitBreakerConfigurationMapping(t *testing.T) {
	// Test that configuration values are properly applied to circuit breakers

	improveConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}

	cb := NewAICircuitBreaker("Improve", improveConfig, nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	expectedName := "AI-Improve"
	if name != expectedName {
		t.Errorf("Expected circuit breaker name '%s', got '%s'", expectedName, name)
	}

	// Verify it's in closed state initially
	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	// Verify it's enabled
	enabled, ok := stats["enabled"].(bool)
	if !ok {
		t.Fatal("Circuit breaker enabled status not found")
	}
	if !enabled {
		t.Error("Circuit breaker should be enabled")
	}
}

func TestModelCircuitBreakerIndependence(t *testing.T) {
	// The generation breaker and the model-info breaker protect different
	// call paths and must trip independently.

	improveConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}

	aiCB := NewAICircuitBreaker("Improve", improveConfig, nil)
	modelCB := NewModelCircuitBreaker("Improve", improveConfig, nil)

	aiStats := aiCB.GetStats()
	modelStats := modelCB.GetModelStats()

	if name, _ := aiStats["name"].(string); name != "AI-Improve" {
		t.Errorf("Expected generation breaker name 'AI-Improve', got '%s'", name)
	}
	if name, _ := modelStats["name"].(string); name != "AI-Model-Improve" {
		t.Errorf("Expected model breaker name 'AI-Model-Improve', got '%s'", name)
	}

	// Both should be healthy initially
	if !aiCB.IsHealthy() {
		t.Error("Generation circuit breaker should be healthy initially")
	}
	if !modelCB.IsModelHealthy() {
		t.Error("Model circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	// Test that circuit breaker returns nil when disabled

	disabledConfig := &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled: false, // Disabled
		},
	}

	cb := NewAICircuitBreaker("Disabled", disabledConfig, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	modelCB := NewModelCircuitBreaker("Disabled", disabledConfig, nil)
	if modelCB != nil {
		t.Fatal("Model circuit breaker should be nil when disabled")
	}

	// A nil breaker still executes the wrapped function directly
	if _, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		return nil, nil
	}); err != nil {
		t.Errorf("Disabled breaker should pass through, got error: %v", err)
	}
}
