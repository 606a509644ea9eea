package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/ai"
)

// healthHandler reports service health: AI model availability, circuit
// breaker state, and certificate expiry. Responds 503 when degraded so
// load balancer probes can act on it.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	aiStatus := s.checkAIModelsHealth()
	certStatus := s.checkCertificateHealth()

	response := map[string]any{
		"status":           "healthy",
		"service":          "smartats",
		"version":          s.Version,
		"ai_models":        aiStatus,
		"circuit_breakers": s.checkCircuitBreakerHealth(),
	}
	if certStatus != nil {
		response["certificates"] = certStatus
	}

	if !aiModelsHealthy(aiStatus) || !certHealthy(certStatus) {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func aiModelsHealthy(aiStatus map[string]any) bool {
	for _, modelStatus := range aiStatus {
		modelInfo, ok := modelStatus.(map[string]any)
		if !ok {
			continue
		}
		if available, ok := modelInfo["available"].(bool); ok && !available {
			return false
		}
	}
	return true
}

func certHealthy(certStatus map[string]any) bool {
	if certStatus == nil {
		return true
	}
	healthy, ok := certStatus["healthy"].(bool)
	return !ok || healthy
}

// checkAIModelsHealth probes the model backing the improve operation
func (s *Server) checkAIModelsHealth() map[string]any {
	timeout := s.AppConfig.Observability.HealthCheck.Timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aiStatus := make(map[string]any)

	improveConfig := s.AppConfig.GetImproveConfig()
	improveService, err := ai.NewService(&improveConfig, "improve", s.Logger)
	if err != nil {
		aiStatus["improve"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create improve service: %v", err),
		}
		return aiStatus
	}

	aiStatus["improve"] = improveService.GetModelInfo(ctx)
	return aiStatus
}

// checkCircuitBreakerHealth reports the improve operation's breaker stats
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	circuitBreakerStatus := make(map[string]any)

	improveConfig := s.AppConfig.GetImproveConfig()
	improveService, err := ai.NewService(&improveConfig, "improve", s.Logger)
	if err != nil {
		circuitBreakerStatus["improve"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create improve service: %v", err),
		}
		return circuitBreakerStatus
	}

	if geminiProvider, ok := improveService.Provider.(*ai.GeminiProvider); ok {
		circuitBreakerStatus["improve"] = geminiProvider.GetCircuitBreakerStats()
	} else {
		circuitBreakerStatus["improve"] = map[string]any{
			"available": true,
			"message":   "Circuit breaker integrated with improve service",
		}
	}
	return circuitBreakerStatus
}

// checkCertificateHealth grades certificate expiry: expired and
// sub-24-hour certificates are unhealthy, sub-7-day is a warning.
// Returns nil when no certificate manager is running.
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertificateManager == nil {
		return nil
	}

	certStatus := make(map[string]any)

	timeToExpiry, err := s.CertificateManager.CheckExpiry()
	if err != nil {
		certStatus["healthy"] = false
		certStatus["error"] = fmt.Sprintf("Failed to check certificate expiry: %v", err)
		return certStatus
	}

	certStatus["time_to_expiry_hours"] = int(timeToExpiry.Hours())
	certStatus["time_to_expiry"] = timeToExpiry.String()

	switch {
	case timeToExpiry <= 0:
		certStatus["healthy"] = false
		certStatus["status"] = "expired"
		certStatus["message"] = "Certificate has expired"
	case timeToExpiry <= 24*time.Hour:
		certStatus["healthy"] = false
		certStatus["status"] = "critical"
		certStatus["message"] = "Certificate expires within 24 hours"
	case timeToExpiry <= 7*24*time.Hour:
		certStatus["healthy"] = true
		certStatus["status"] = "warning"
		certStatus["message"] = "Certificate expires within 7 days"
	default:
		certStatus["healthy"] = true
		certStatus["status"] = "ok"
		certStatus["message"] = "Certificate is valid"
	}

	reloadStatus := map[string]any{
		"enabled": s.TLSConfig.Reload.Enabled,
	}
	if s.CertificateManager.fileWatcher != nil {
		reloadStatus["watcher_running"] = s.CertificateManager.fileWatcher.IsRunning()
		reloadStatus["watched_files"] = s.CertificateManager.fileWatcher.GetWatchedFiles()
	}
	certStatus["reload"] = reloadStatus

	if metrics := s.CertificateManager.GetMetrics(); metrics != nil {
		certStatus["metrics"] = map[string]any{
			"reload_count":         metrics.ReloadCount,
			"reload_success_count": metrics.ReloadSuccessCount,
			"reload_failure_count": metrics.ReloadFailureCount,
			"last_reload_time":     metrics.LastReloadTime,
			"last_reload_success":  metrics.LastReloadSuccess,
			"last_reload_error":    metrics.LastReloadError,
		}
	}

	return certStatus
}

// statsHandler exposes request-size limits and rate limiter state
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "smartats",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest decodes a JSON body into v, surfacing the configured
// size limit when MaxBytesReader trips
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// writeErrorResponse writes the standard JSON error envelope
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
