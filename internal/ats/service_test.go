package ats

import (
	"errors"
	"strings"
	"testing"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/config"
	apperrors "github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

func testService() *Service {
	return NewService(config.AnalysisConfig{
		MinJobDescriptionChars: 50,
		MinResumeTextChars:     100,
	}, nil)
}

const serviceTestJob = "We are hiring a backend engineer with experience in Go, Docker, Kubernetes and PostgreSQL for our platform team."

const serviceTestResume = `Jane Doe
jane@example.com
+1 (415) 555-2671

EXPERIENCE
Backend engineer building Go services with Docker and PostgreSQL.

EDUCATION
BSc Computer Science

SKILLS
Go, Docker, PostgreSQL`

func assertValidationCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Type != apperrors.ErrorTypeValidation {
		t.Errorf("Expected validation error type, got '%s'", appErr.Type)
	}
	if appErr.Code != code {
		t.Errorf("Expected code '%s', got '%s'", code, appErr.Code)
	}
}

func TestAnalyzeJobDescriptionTooShort(t *testing.T) {
	_, err := testService().Analyze(serviceTestResume, "short job")
	assertValidationCode(t, err, apperrors.ErrCodeJobDescTooShort)
}

func TestAnalyzeResumeTooShort(t *testing.T) {
	_, err := testService().Analyze("Jane Doe", serviceTestJob)
	assertValidationCode(t, err, apperrors.ErrCodeResumeTooShort)
}

func TestAnalyzeWhitespaceNotCounted(t *testing.T) {
	padded := "   short job   " + strings.Repeat(" ", 100)
	_, err := testService().Analyze(serviceTestResume, padded)
	assertValidationCode(t, err, apperrors.ErrCodeJobDescTooShort)
}

func TestAnalyzeProducesReport(t *testing.T) {
	report, err := testService().Analyze(serviceTestResume, serviceTestJob)
	if err != nil {
		t.Fatalf("Expected analysis to succeed, got: %v", err)
	}
	if report.Score.Score < 0 || report.Score.Score > 100 {
		t.Errorf("Score out of range: %d", report.Score.Score)
	}
	if len(report.Score.MatchedKeywords) == 0 {
		t.Error("Expected matched keywords for overlapping skills")
	}
	if len(report.Advisories) == 0 {
		t.Error("Expected advisory notes")
	}
}

func TestFlattenResume(t *testing.T) {
	resume := types.StructuredResume{
		Name:    "Jane Doe",
		Contact: types.ResumeContact{Email: "jane@example.com", Phone: "+1 415 555 2671"},
		Summary: "Backend engineer.",
		Experience: []types.ExperienceEntry{
			{Title: "Engineer", Company: "Acme", Duration: "2020-2024", Achievements: []string{"Shipped Go services", "Cut latency"}},
		},
		Education: []types.EducationEntry{{Degree: "BSc", Institution: "State University"}},
		Skills:    []string{"Go", "Docker", "PostgreSQL"},
	}

	text := FlattenResume(resume)

	if !strings.HasPrefix(text, "Jane Doe\n") {
		t.Error("Name must be the first line for name detection")
	}
	for _, expected := range []string{
		"jane@example.com",
		"Engineer Acme",
		"2020-2024",
		"Shipped Go services",
		"BSc State University",
		"Go Docker PostgreSQL",
	} {
		if !strings.Contains(text, expected) {
			t.Errorf("Expected flattened text to contain %q", expected)
		}
	}
}

func TestRescore(t *testing.T) {
	resume := types.StructuredResume{
		Name:    "Jane Doe",
		Contact: types.ResumeContact{Email: "jane@example.com", Phone: "+1 415 555 2671"},
		Summary: "Backend engineer on a platform team working with Go, Docker, Kubernetes and PostgreSQL.",
		Experience: []types.ExperienceEntry{
			{Title: "Backend Engineer", Company: "Acme", Achievements: []string{
				"Built Go services deployed on Kubernetes",
				"Tuned PostgreSQL queries for the platform team",
			}},
		},
		Skills: []string{"Go", "Docker", "Kubernetes", "PostgreSQL"},
	}

	report, err := testService().Rescore(resume, serviceTestJob)
	if err != nil {
		t.Fatalf("Expected rescore to succeed, got: %v", err)
	}
	if report.Score.Score == 0 {
		t.Error("Expected nonzero score for a keyword-aligned resume")
	}
	if !report.Score.HasContact {
		t.Error("Expected email to survive flattening")
	}
}
