package server

import (
	"net/http"
	"strings"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/observability"
)

// setupRoutes builds the mux. Health and stats are open; the resume
// endpoints go through rate limiting, authentication, and the request
// size cap, in that order.
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	rateLimit := s.createRateLimitMiddleware(om)
	sizeLimit := s.requestSizeLimitMiddleware()
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimit(s.authMiddleware(sizeLimit(h)))
	}

	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/api/stats", s.statsHandler)
	mux.HandleFunc("/api/analyze", protected(s.createAnalyzeHandler(om)))
	mux.HandleFunc("/api/improve", protected(s.createImproveHandler(om)))
	mux.HandleFunc("/api/render", protected(s.createRenderHandler(om)))
	mux.HandleFunc("/api/rescore", protected(s.createRescoreHandler(om)))

	return mux
}

// authMiddleware checks the X-API-Key header, or a Bearer token as a
// fallback. An empty key set disables authentication entirely.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			authHeader := r.Header.Get("Authorization")
			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				apiKey = after
			}
		}

		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimitMiddleware caps request bodies at MaxRequestSize
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}
			next(w, r)
		}
	}
}

// maskAPIKey keeps only the first 8 characters for log lines
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
