package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/ai"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/ats"
	apperrors "github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/extract"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/observability"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/render"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

const renderedResumeFilename = "ATS_Optimized_Resume.pdf"

// statusForError maps application errors to HTTP status codes. Validation
// failures are the client's fault; everything else is ours.
func statusForError(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// createAnalyzeHandler wraps the analyze handler with observability. The
// endpoint takes a multipart upload: a "resume" file (PDF or DOCX) and a
// "job_description" form field.
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("smartats.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		if err := r.ParseMultipartForm(s.MaxRequestSize); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid multipart form", err.Error(), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume file", "resume file field is required", http.StatusBadRequest)
			return
		}
		defer func() {
			if err := file.Close(); err != nil {
				s.Logger.Warn("Failed to close uploaded file", "error", err)
			}
		}()

		jobDescription := strings.TrimSpace(r.FormValue("job_description"))
		if jobDescription == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "job_description field is required", http.StatusBadRequest)
			return
		}

		format, err := extract.FormatFromFilename(header.Filename)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Unsupported file type", err.Error(), http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to read resume file", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.filename", header.Filename),
			attribute.String("request.format", string(format)),
			attribute.Int("request.file_size", len(data)),
			attribute.Int("request.job_length", len(jobDescription)),
			attribute.String("operation", "analyze"),
		)

		resumeText, err := extract.Text(format, data)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "extraction"))
			writeErrorResponse(w, "Failed to extract resume text", err.Error(), statusForError(err))
			return
		}

		analysis := ats.NewService(s.AppConfig.Analysis, s.Logger)
		report, err := analysis.Analyze(resumeText, jobDescription)
		metrics := om.GetMetrics()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "analysis"))
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), statusForError(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Int("ats.score", report.Score.Score),
			attribute.Int("ats.matched_keywords", len(report.Score.MatchedKeywords)))
		metrics.RecordResumeScore(ctx, report.Score.Score, om,
			attribute.String("operation", "analyze"))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", report.Score.Score),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createImproveHandler wraps the improve handler with observability
func (s *Server) createImproveHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("smartats.api")
		ctx, span := tracer.Start(ctx, "api.improve")
		defer span.End()

		// Parse request
		var req ImproveRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation against configured thresholds
		analysis := ats.NewService(s.AppConfig.Analysis, s.Logger)
		if err := analysis.ValidateResumeText(req.ResumeText); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume text too short", err.Error(), http.StatusBadRequest)
			return
		}
		if err := analysis.ValidateJobDescription(req.JobDescription); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too short", err.Error(), http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "improve"),
		)

		input := types.ImproveResumeInput{
			ResumeText:     req.ResumeText,
			JobDescription: req.JobDescription,
		}

		// Create AI service for improve operation
		improveConfig := s.AppConfig.GetImproveConfig()
		aiService, err := ai.NewService(&improveConfig, "improve", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track AI operation with observability and token usage
		metrics := om.GetMetrics()
		var result types.StructuredResume
		var usage *ai.TokenUsage
		err = metrics.TrackAIOperationWithTokens(ctx, "improve", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := aiService.ImproveResume(ctx, input)
			result = output
			usage = tokenUsage
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_improved", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to improve resume", err.Error(), http.StatusInternalServerError)
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "resume_improved", true, om,
			attribute.Int("output.experience_entries", len(result.Experience)),
			attribute.Int("output.skills", len(result.Skills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.experience_entries", len(result.Experience)),
		)

		response := map[string]any{"resume": result}
		if usage != nil {
			response["token_usage"] = usage
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRenderHandler wraps the render handler with observability. The body
// is a structured resume; the response is a PDF download.
func (s *Server) createRenderHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("smartats.api")
		ctx, span := tracer.Start(ctx, "api.render")
		defer span.End()

		var resume types.StructuredResume
		if err := parseJSONRequest(r, &resume); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(resume.Name) == "" {
			err := fmt.Errorf("missing resume name")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume name", "name field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.experience_entries", len(resume.Experience)),
			attribute.Int("request.skills", len(resume.Skills)),
			attribute.String("operation", "render"),
		)

		metrics := om.GetMetrics()
		pdfBytes, err := render.Render(resume)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "render"))
			metrics.RecordBusinessMetric(ctx, "resume_rendered", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to render resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_rendered", true, om,
			attribute.Int("output.pdf_bytes", len(pdfBytes)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.pdf_bytes", len(pdfBytes)),
		)

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", renderedResumeFilename))
		if _, err := w.Write(pdfBytes); err != nil {
			span.RecordError(err)
			s.Logger.Warn("Failed to write PDF response", "error", err)
		}
	}
}

// createRescoreHandler wraps the rescore handler with observability
func (s *Server) createRescoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("smartats.api")
		ctx, span := tracer.Start(ctx, "api.rescore")
		defer span.End()

		var req RescoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "rescore"),
		)

		analysis := ats.NewService(s.AppConfig.Analysis, s.Logger)
		metrics := om.GetMetrics()
		report, err := analysis.Rescore(req.Resume, req.JobDescription)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "analysis"))
			metrics.RecordBusinessMetric(ctx, "resume_rescored", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to rescore resume", err.Error(), statusForError(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_rescored", true, om,
			attribute.Int("ats.score", report.Score.Score))
		metrics.RecordResumeScore(ctx, report.Score.Score, om,
			attribute.String("operation", "rescore"))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", report.Score.Score),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
