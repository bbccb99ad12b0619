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

	"talentmatch/internal/ai"
)

// healthCheckTimeout bounds the AI model probe on the health endpoint
const healthCheckTimeout = 10 * time.Second

// healthHandler provides a health check endpoint including AI model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "talentmatch",
		"version": s.Version,
	}

	// Check AI model availability
	aiStatus := s.checkAIModelHealth()
	response["ai_model"] = aiStatus

	// Check circuit breaker status
	circuitBreakerStatus := s.checkCircuitBreakerHealth()
	response["circuit_breaker"] = circuitBreakerStatus

	// Determine overall health status
	overallHealthy := true
	if available, exists := aiStatus["available"]; exists {
		if avail, ok := available.(bool); ok && !avail {
			overallHealthy = false
		}
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAIModelHealth checks the availability of the configured LLM model
func (s *Server) checkAIModelHealth() map[string]any {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	aiService, err := ai.NewService(&s.AppConfig.AI, s.Logger)
	if err != nil {
		return map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create AI service: %v", err),
		}
	}

	return modelInfoStatus(aiService.GetModelInfo(ctx))
}

// modelInfoStatus flattens a model probe result into the health payload
func modelInfoStatus(info *ai.ModelInfo) map[string]any {
	status := map[string]any{
		"available": info.Available,
		"model":     info.Name,
	}
	if info.DisplayName != "" {
		status["display_name"] = info.DisplayName
	}
	if info.Version != "" {
		status["version"] = info.Version
	}
	if info.Error != "" {
		status["error"] = info.Error
	}
	return status
}

// checkCircuitBreakerHealth checks the circuit breaker for the assessment path
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	if _, err := ai.NewService(&s.AppConfig.AI, s.Logger); err != nil {
		return map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create AI service: %v", err),
		}
	}

	return map[string]any{
		"available": true,
		"message":   "Circuit breaker integrated with assessment service",
	}
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "talentmatch",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	// Matching configuration relevant to operators
	response["matching"] = map[string]any{
		"sample_size":          s.AppConfig.Matching.SampleSize,
		"auto_advance_enabled": s.AppConfig.Matching.AutoAdvance.Enabled,
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
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

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
