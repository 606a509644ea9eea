package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/ats"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/config"
	apperrors "github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

// Prompt size limits keep token usage predictable for large uploads.
const (
	maxResumePromptChars = 3500
	maxJobPromptChars    = 1500
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *apperrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider with per-operation circuit
// breakers
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *apperrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo probes the configured model through the model breaker,
// used by the health endpoint
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry runs fn up to MaxRetries+1 times with exponential
// backoff. Jitter spreads concurrent retries; backoff caps at 30s.
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(retryBackoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// retryBackoff computes the delay before the given attempt: exponential
// base with up to 10% crypto-random jitter, capped at 30 seconds
func retryBackoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
	jitterBig, _ := rand.Int(rand.Reader, jitterMax)
	return min(baseDelay+time.Duration(jitterBig.Int64()), 30*time.Second)
}

// isRetryableError treats network failures and throttling/server-side
// HTTP statuses as transient. Auth and validation errors are not retried.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// executeGeneration runs a generation request with common tracing, circuit
// breaker, and retry logic, returning the raw response text. Parsing is left
// to the caller since fenced or malformed output needs domain-specific
// handling.
func (g *GeminiProvider) executeGeneration(
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (string, *TokenUsage, error) {
	tracer := otel.Tracer("smartats.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	// Set base attributes
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return result.Text(), tokenUsage, nil
}

// ImproveResume implements AIProvider interface for resume improvement
func (g *GeminiProvider) ImproveResume(ctx context.Context, input types.ImproveResumeInput) (types.StructuredResume, *TokenUsage, error) {
	systemPrompt, userPrompt := g.getPromptsForImprove(input)
	config := g.buildImproveSchema()

	raw, tokenUsage, err := g.executeGeneration(
		ctx,
		"improve_resume",
		userPrompt,
		systemPrompt,
		config,
		attribute.Int("input.resume_length", len(input.ResumeText)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)
	if err != nil {
		return types.StructuredResume{}, nil, err
	}

	output, err := ParseStructuredResume(raw)
	if err != nil {
		return types.StructuredResume{}, tokenUsage, err
	}

	g.logger.Info("Resume improved",
		"experience_entries", len(output.Experience),
		"skills", len(output.Skills))

	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}

	// Overall health - both breakers must be healthy
	aiHealthy := g.circuitBreaker.IsHealthy()
	modelHealthy := g.modelBreaker.IsModelHealthy()
	stats["overall_healthy"] = aiHealthy && modelHealthy

	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	// Probably needed in streaming mode
	return nil
}

// buildImproveSchema creates the structured resume schema for improve requests
func (g *GeminiProvider) buildImproveSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {Type: genai.TypeString},
				"contact": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"email":    {Type: genai.TypeString},
						"phone":    {Type: genai.TypeString},
						"location": {Type: genai.TypeString},
						"linkedin": {Type: genai.TypeString},
					},
				},
				"summary": {Type: genai.TypeString},
				"experience": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title":    {Type: genai.TypeString},
							"company":  {Type: genai.TypeString},
							"duration": {Type: genai.TypeString},
							"achievements": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
						},
						Required: []string{"title", "company", "achievements"},
					},
				},
				"education": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"degree":      {Type: genai.TypeString},
							"institution": {Type: genai.TypeString},
							"year":        {Type: genai.TypeString},
							"gpa":         {Type: genai.TypeString},
						},
						Required: []string{"degree", "institution"},
					},
				},
				"skills": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"certifications": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"languages": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"projects": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"name", "contact", "summary", "experience", "skills"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// getPromptsForImprove returns system and user prompts for resume improvement.
// Contact facts parsed from the original resume are pinned into the prompt so
// the model does not invent replacements.
func (g *GeminiProvider) getPromptsForImprove(input types.ImproveResumeInput) (string, string) {
	systemPrompt := resolvePrompt(g.config.CustomPrompts.SystemPrompts.ImproveResume, DefaultSystemPrompts.ImproveResume)
	userPrompt := resolvePrompt(g.config.CustomPrompts.UserPrompts.ImproveResume, DefaultUserPrompts.ImproveResume)

	name := ats.ExtractName(input.ResumeText)
	contact := ats.ExtractContactInfo(input.ResumeText)

	email := "email@example.com"
	if len(contact.Emails) > 0 {
		email = contact.Emails[0]
	}
	phone := "+1234567890"
	if len(contact.Phones) > 0 {
		phone = contact.Phones[0]
	}
	linkedin := ""
	if len(contact.LinkedIn) > 0 {
		linkedin = contact.LinkedIn[0]
	}

	formattedUserPrompt := fmt.Sprintf(userPrompt,
		truncateForPrompt(input.ResumeText, maxResumePromptChars),
		truncateForPrompt(input.JobDescription, maxJobPromptChars),
		name, email, phone, linkedin)

	return systemPrompt, formattedUserPrompt
}

func truncateForPrompt(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// modelCheckTimeout bounds health-check model lookups independently of
// the operation timeout
const modelCheckTimeout = 10 * time.Second
