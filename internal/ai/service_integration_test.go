package ai

import (
	"log/slog"
	"testing"
	"time"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/config"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
)

// Helper functions to create pointers for test values
func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

var testLogger = errors.NewLogger(slog.LevelDebug)

// TestImproveConfigDerivation verifies that the improve operation configuration
// is correctly derived, with fallbacks to the global configuration.
func TestImproveConfigDerivation(t *testing.T) {
	testConfig := &config.Config{
		AI: config.AIConfig{
			// Global defaults that should be used as fallbacks
			Provider:         "gemini",
			Model:            "global-model",
			Timeout:          60 * time.Second,
			APIKey:           "global-api-key",
			MaxRetries:       5,
			Temperature:      0.9,
			UseSystemPrompts: true,

			// Operation-specific overrides
			Improve: config.OperationAIConfig{
				Model:       "improve-specific-model",
				Timeout:     timePtr(90 * time.Second),
				Temperature: float32Ptr(0.3),
				// APIKey and MaxRetries should fall back to global values.
			},
		},
	}

	cfg := testConfig.GetImproveConfig()

	if cfg.Model != "improve-specific-model" {
		t.Errorf("Expected override model 'improve-specific-model', got '%s'", cfg.Model)
	}
	if *cfg.Timeout != 90*time.Second {
		t.Errorf("Expected override timeout 90s, got %v", *cfg.Timeout)
	}
	if *cfg.Temperature != float32(0.3) {
		t.Errorf("Expected override temperature 0.3, got %f", *cfg.Temperature)
	}
	if cfg.APIKey != "global-api-key" {
		t.Errorf("Expected fallback API key 'global-api-key', got '%s'", cfg.APIKey)
	}
	if *cfg.MaxRetries != 5 {
		t.Errorf("Expected fallback max retries 5, got %d", *cfg.MaxRetries)
	}
	if !*cfg.UseSystemPrompts {
		t.Error("Expected fallback useSystemPrompts true")
	}

	// The factory must be able to consume a derived config without panicking.
	if _, err := NewService(&cfg, "improve", testLogger); err != nil {
		// We expect an error due to the dummy API key, but not a panic.
		t.Logf("Received expected error when creating service with test key: %v", err)
	}
}

// TestImprovePromptFallbacks verifies custom prompt resolution order
func TestImprovePromptFallbacks(t *testing.T) {
	testConfig := &config.Config{
		AI: config.AIConfig{
			Provider: "gemini",
			CustomPrompts: config.PromptConfig{
				SystemPrompts: config.SystemPrompts{ImproveResume: "global system prompt"},
			},
			Improve: config.OperationAIConfig{
				CustomPrompts: config.PromptConfig{
					UserPrompts: config.UserPrompts{ImproveResume: "operation user prompt"},
				},
			},
		},
	}

	cfg := testConfig.GetImproveConfig()

	if cfg.CustomPrompts.SystemPrompts.ImproveResume != "global system prompt" {
		t.Errorf("Expected global system prompt fallback, got '%s'", cfg.CustomPrompts.SystemPrompts.ImproveResume)
	}
	if cfg.CustomPrompts.UserPrompts.ImproveResume != "operation user prompt" {
		t.Errorf("Expected operation user prompt to win, got '%s'", cfg.CustomPrompts.UserPrompts.ImproveResume)
	}
}

func TestCircuitBreakerIntegrationWithService(t *testing.T) {
	// Create a service with specific circuit breaker config
	testOpConfig := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		APIKey:           "test-key",
		MaxRetries:       intPtr(1),
		Temperature:      float32Ptr(0.5),
		UseSystemPrompts: boolPtr(true),
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          45 * time.Second,
			MinRequests:      2,
			FailureThreshold: 0.8,
		},
	}

	service, err := NewService(testOpConfig, "improve", testLogger)
	if err != nil {
		t.Logf("Received expected error when creating service with test key: %v", err)
	}

	// Verify the service has the correct configuration
	if service.config.CircuitBreaker.MaxRequests != 5 {
		t.Errorf("Expected circuit breaker max requests 5, got %d", service.config.CircuitBreaker.MaxRequests)
	}
	if service.config.CircuitBreaker.FailureThreshold != 0.8 {
		t.Errorf("Expected circuit breaker failure threshold 0.8, got %f", service.config.CircuitBreaker.FailureThreshold)
	}

	// Test that the provider has a circuit breaker
	if geminiProvider, ok := service.Provider.(*GeminiProvider); ok {
		stats := geminiProvider.GetCircuitBreakerStats()

		aiOpsStats, ok := stats["ai_operations"].(map[string]any)
		if !ok {
			t.Fatal("AI operations stats should exist and be a map")
		}
		if name, _ := aiOpsStats["name"].(string); name != "AI-improve" {
			t.Errorf("Expected circuit breaker name 'AI-improve', got '%s'", name)
		}

		modelOpsStats, ok := stats["model_operations"].(map[string]any)
		if !ok {
			t.Fatal("Model operations stats should exist and be a map")
		}
		if name, _ := modelOpsStats["name"].(string); name != "AI-Model-improve" {
			t.Errorf("Expected model circuit breaker name 'AI-Model-improve', got '%s'", name)
		}

		// Check overall health
		if overallHealthy, _ := stats["overall_healthy"].(bool); !overallHealthy {
			t.Error("Circuit breaker should be healthy initially")
		}
	} else {
		t.Fatal("Service provider is not of type *GeminiProvider")
	}
}
