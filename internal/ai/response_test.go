package ai

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/config"
	apperrors "github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

func improveInput(resume, job string) types.ImproveResumeInput {
	return types.ImproveResumeInput{ResumeText: resume, JobDescription: job}
}

func TestStripFencing(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "bare JSON untouched",
			raw:      `{"name": "Jane Doe"}`,
			expected: `{"name": "Jane Doe"}`,
		},
		{
			name:     "json fence",
			raw:      "```json\n{\"name\": \"Jane Doe\"}\n```",
			expected: `{"name": "Jane Doe"}`,
		},
		{
			name:     "json fence with leading prose",
			raw:      "Here is the resume:\n```json\n{\"name\": \"Jane Doe\"}\n```\nLet me know!",
			expected: `{"name": "Jane Doe"}`,
		},
		{
			name:     "plain fence",
			raw:      "```\n{\"name\": \"Jane Doe\"}\n```",
			expected: `{"name": "Jane Doe"}`,
		},
		{
			name:     "surrounding whitespace",
			raw:      "  \n{\"name\": \"Jane Doe\"}\n  ",
			expected: `{"name": "Jane Doe"}`,
		},
		{
			name:     "unterminated json fence",
			raw:      "```json\n{\"name\": \"Jane Doe\"}",
			expected: `{"name": "Jane Doe"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFencing(tt.raw); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestParseStructuredResume(t *testing.T) {
	raw := "```json\n" + `{
		"name": "Jane Doe",
		"contact": {"email": "jane@example.com", "phone": "+1 415 555 2671"},
		"summary": "Engineer.",
		"experience": [{"title": "Engineer", "company": "Acme", "achievements": ["Shipped"]}],
		"skills": ["Go"]
	}` + "\n```"

	resume, err := ParseStructuredResume(raw)
	if err != nil {
		t.Fatalf("Expected parse to succeed, got: %v", err)
	}
	if resume.Name != "Jane Doe" {
		t.Errorf("Expected name 'Jane Doe', got '%s'", resume.Name)
	}
	if resume.Contact.Email != "jane@example.com" {
		t.Errorf("Expected contact email, got '%s'", resume.Contact.Email)
	}
	if len(resume.Experience) != 1 || resume.Experience[0].Company != "Acme" {
		t.Errorf("Expected one experience entry at Acme, got %+v", resume.Experience)
	}
}

func TestParseStructuredResumeInvalidJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "prose response", raw: "I could not process this resume, sorry."},
		{name: "truncated JSON", raw: `{"name": "Jane Doe", "summary":`},
		{name: "empty response", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStructuredResume(tt.raw)
			if err == nil {
				t.Fatal("Expected parse error")
			}
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("Expected AppError, got %T", err)
			}
			if appErr.Type != apperrors.ErrorTypeGeneration {
				t.Errorf("Expected generation error type, got '%s'", appErr.Type)
			}
			if appErr.Code != apperrors.ErrCodeGenerationMalformed {
				t.Errorf("Expected code '%s', got '%s'", apperrors.ErrCodeGenerationMalformed, appErr.Code)
			}
		})
	}
}

func TestGetPromptsForImprove(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		MaxRetries:       intPtr(1),
		Temperature:      float32Ptr(0.3),
		UseSystemPrompts: boolPtr(true),
	}
	g := &GeminiProvider{config: cfg}

	resume := "Jane Doe\njane@example.com\n+1 (415) 555-2671\nlinkedin.com/in/janedoe\n\nEXPERIENCE\nEngineer at Acme"
	systemPrompt, userPrompt := g.getPromptsForImprove(improveInput(resume, "Looking for a Go engineer."))

	if systemPrompt != DefaultSystemPrompts.ImproveResume {
		t.Errorf("Expected default system prompt, got '%s'", systemPrompt)
	}
	for _, expected := range []string{
		"Jane Doe",
		"jane@example.com",
		"+1 (415) 555-2671",
		"linkedin.com/in/janedoe",
		"Looking for a Go engineer.",
	} {
		if !strings.Contains(userPrompt, expected) {
			t.Errorf("Expected user prompt to contain %q", expected)
		}
	}
	// Escaped percents in the template must come out literal
	if !strings.Contains(userPrompt, "30% efficiency") {
		t.Error("Expected literal percent signs in formatted prompt")
	}
	if strings.Contains(userPrompt, "%!") {
		t.Error("Prompt formatting produced a verb error")
	}
}

func TestGetPromptsForImproveTruncation(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		MaxRetries:       intPtr(1),
		Temperature:      float32Ptr(0.3),
		UseSystemPrompts: boolPtr(true),
	}
	g := &GeminiProvider{config: cfg}

	longResume := "Jane Doe\n" + strings.Repeat("a", 10000)
	longJob := strings.Repeat("b", 5000)
	_, userPrompt := g.getPromptsForImprove(improveInput(longResume, longJob))

	if strings.Contains(userPrompt, strings.Repeat("a", maxResumePromptChars)) == false {
		t.Error("Expected truncated resume text in prompt")
	}
	if strings.Contains(userPrompt, strings.Repeat("a", maxResumePromptChars+1)) {
		t.Errorf("Resume text should be capped at %d characters", maxResumePromptChars)
	}
	if strings.Contains(userPrompt, strings.Repeat("b", maxJobPromptChars+1)) {
		t.Errorf("Job description should be capped at %d characters", maxJobPromptChars)
	}
}

func TestCustomPromptOverride(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		MaxRetries:       intPtr(1),
		Temperature:      float32Ptr(0.3),
		UseSystemPrompts: boolPtr(true),
		CustomPrompts: config.PromptConfig{
			SystemPrompts: config.SystemPrompts{ImproveResume: "custom system"},
			UserPrompts:   config.UserPrompts{ImproveResume: "custom user %s %s %s %s %s %s"},
		},
	}
	g := &GeminiProvider{config: cfg}

	systemPrompt, userPrompt := g.getPromptsForImprove(improveInput("Jane Doe", "job"))
	if systemPrompt != "custom system" {
		t.Errorf("Expected custom system prompt, got '%s'", systemPrompt)
	}
	if !strings.HasPrefix(userPrompt, "custom user") {
		t.Errorf("Expected custom user prompt, got '%s'", userPrompt)
	}
}
