package ai

import (
	"fmt"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/config"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// AICircuitBreaker guards content-generation calls for one operation type
type AICircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

// ModelCircuitBreaker guards model-info calls for one operation type
type ModelCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

func breakerSettings(name, operationType string, cfg *config.OperationAIConfig, logger *errors.Logger, readyToTrip func(gobreaker.Counts) bool) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: readyToTrip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation_type", operationType,
				"from", from.String(),
				"to", to.String())
		},
	}
}

// NewAICircuitBreaker creates a breaker for a specific operation type.
// Returns nil when the breaker is disabled in config.
func NewAICircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *AICircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	readyToTrip := func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= cfg.CircuitBreaker.MinRequests &&
			failureRatio >= cfg.CircuitBreaker.FailureThreshold
	}

	settings := breakerSettings(fmt.Sprintf("AI-%s", operationType), operationType, cfg, logger, readyToTrip)
	return &AICircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](settings),
	}
}

// NewModelCircuitBreaker creates a breaker for model-info calls.
// Returns nil when the breaker is disabled in config.
func NewModelCircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *ModelCircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	// Model info is less critical, so the trip condition is more lenient
	readyToTrip := func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 5 && failureRatio >= 0.8
	}

	settings := breakerSettings(fmt.Sprintf("AI-Model-%s", operationType), operationType, cfg, logger, readyToTrip)
	return &ModelCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.Model](settings),
	}
}

// Execute runs fn with breaker protection. A nil receiver means the breaker
// is disabled and fn runs directly.
func (cb *AICircuitBreaker) Execute(fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// ExecuteModel runs fn with breaker protection, nil-safe like Execute
func (cb *ModelCircuitBreaker) ExecuteModel(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

func breakerStats[T any](cb *gobreaker.CircuitBreaker[T]) map[string]any {
	if cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    cb.Name(),
		"state":   cb.State().String(),
		"counts":  cb.Counts(),
		"enabled": true,
	}
}

// GetStats returns circuit breaker statistics
func (cb *AICircuitBreaker) GetStats() map[string]any {
	if cb == nil {
		return map[string]any{"enabled": false}
	}
	return breakerStats(cb.cb)
}

// GetModelStats returns model circuit breaker statistics
func (cb *ModelCircuitBreaker) GetModelStats() map[string]any {
	if cb == nil {
		return map[string]any{"enabled": false}
	}
	return breakerStats(cb.cb)
}

// IsHealthy reports whether the breaker is closed (or disabled)
func (cb *AICircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}

// IsModelHealthy reports whether the model breaker is closed (or disabled)
func (cb *ModelCircuitBreaker) IsModelHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}
