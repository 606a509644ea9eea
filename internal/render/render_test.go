package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

func paragraphTexts(story []flowable) []string {
	var texts []string
	for _, f := range story {
		if f.kind == flowParagraph {
			text := f.text
			if f.boldPrefix != "" {
				text = f.boldPrefix + f.text
			}
			texts = append(texts, text)
		}
	}
	return texts
}

func containsText(story []flowable, text string) bool {
	for _, t := range paragraphTexts(story) {
		if t == text {
			return true
		}
	}
	return false
}

func TestBuildStoryHeader(t *testing.T) {
	tests := []struct {
		name            string
		content         types.StructuredResume
		expectedName    string
		expectedContact string
	}{
		{
			name: "full contact in fixed order",
			content: types.StructuredResume{
				Name: "Jane Doe",
				Contact: types.ResumeContact{
					Email: "jane@example.com", Phone: "+1 415 555 2671",
					Location: "San Francisco, CA", LinkedIn: "linkedin.com/in/janedoe",
				},
			},
			expectedName:    "JANE DOE",
			expectedContact: "jane@example.com | +1 415 555 2671 | San Francisco, CA | linkedin.com/in/janedoe",
		},
		{
			name: "empty fields emit no separators",
			content: types.StructuredResume{
				Name:    "Jane Doe",
				Contact: types.ResumeContact{Email: "jane@example.com", LinkedIn: "linkedin.com/in/janedoe"},
			},
			expectedName:    "JANE DOE",
			expectedContact: "jane@example.com | linkedin.com/in/janedoe",
		},
		{
			name:            "missing name falls back",
			content:         types.StructuredResume{},
			expectedName:    "PROFESSIONAL",
			expectedContact: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			story := buildStory(tt.content)
			texts := paragraphTexts(story)

			if len(texts) < 2 {
				t.Fatalf("Expected at least name and contact paragraphs, got %v", texts)
			}
			if texts[0] != tt.expectedName {
				t.Errorf("Expected name '%s', got '%s'", tt.expectedName, texts[0])
			}
			if texts[1] != tt.expectedContact {
				t.Errorf("Expected contact '%s', got '%s'", tt.expectedContact, texts[1])
			}
		})
	}
}

func TestBuildStorySectionOmission(t *testing.T) {
	base := types.StructuredResume{Name: "Jane Doe", Summary: "Engineer."}

	story := buildStory(base)
	if containsText(story, "CERTIFICATIONS") {
		t.Error("Expected no CERTIFICATIONS heading when certifications are absent")
	}
	if !containsText(story, "PROFESSIONAL SUMMARY") {
		t.Error("Expected PROFESSIONAL SUMMARY heading for non-empty summary")
	}

	withCert := base
	withCert.Certifications = []string{"AWS Solutions Architect"}
	story = buildStory(withCert)

	if !containsText(story, "CERTIFICATIONS") {
		t.Fatal("Expected CERTIFICATIONS heading")
	}
	bullets := 0
	for _, text := range paragraphTexts(story) {
		if strings.HasPrefix(text, "• ") {
			bullets++
		}
	}
	if bullets != 1 {
		t.Errorf("Expected exactly one bulleted line, got %d", bullets)
	}
	if !containsText(story, "• AWS Solutions Architect") {
		t.Error("Expected certification bullet rendered verbatim")
	}
}

func TestBuildStoryExperience(t *testing.T) {
	content := types.StructuredResume{
		Name: "Jane Doe",
		Experience: []types.ExperienceEntry{
			{Title: "Senior Engineer", Company: "Acme", Duration: "2020 - 2024", Achievements: []string{"Shipped the thing"}},
			{Title: "Engineer", Company: "Initech", Achievements: []string{"Fixed the printer", "Automated reports"}},
		},
	}
	story := buildStory(content)

	for _, expected := range []string{
		"PROFESSIONAL EXPERIENCE",
		"Senior Engineer - Acme",
		"2020 - 2024",
		"• Shipped the thing",
		"Engineer - Initech",
		"• Fixed the printer",
		"• Automated reports",
	} {
		if !containsText(story, expected) {
			t.Errorf("Expected paragraph '%s' in story", expected)
		}
	}

	// One spacer between the two entries, none after the last before the
	// section's own trailing spacer.
	var kindsAfterHeading []flowKind
	seen := false
	for _, f := range story {
		if f.kind == flowParagraph && f.text == "PROFESSIONAL EXPERIENCE" {
			seen = true
		}
		if seen {
			kindsAfterHeading = append(kindsAfterHeading, f.kind)
		}
	}
	spacers := 0
	for _, kind := range kindsAfterHeading {
		if kind == flowSpacer {
			spacers++
		}
	}
	if spacers != 2 {
		t.Errorf("Expected 2 spacers in experience section (between entries + trailing), got %d", spacers)
	}
}

func TestBuildStoryEducation(t *testing.T) {
	tests := []struct {
		name     string
		entry    types.EducationEntry
		expected string
	}{
		{
			name:     "all fields",
			entry:    types.EducationEntry{Degree: "BS Computer Science", Institution: "State University", Year: "2019", GPA: "3.8"},
			expected: "BS Computer Science - State University (2019) | GPA: 3.8",
		},
		{
			name:     "no year",
			entry:    types.EducationEntry{Degree: "BS Computer Science", Institution: "State University", GPA: "3.8"},
			expected: "BS Computer Science - State University | GPA: 3.8",
		},
		{
			name:     "degree and institution only",
			entry:    types.EducationEntry{Degree: "BS Computer Science", Institution: "State University"},
			expected: "BS Computer Science - State University",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			story := buildStory(types.StructuredResume{
				Name:      "Jane Doe",
				Education: []types.EducationEntry{tt.entry},
			})
			if !containsText(story, tt.expected) {
				t.Errorf("Expected education line '%s', story has %v", tt.expected, paragraphTexts(story))
			}
		})
	}
}

func TestBuildStoryJoinedSections(t *testing.T) {
	story := buildStory(types.StructuredResume{
		Name:      "Jane Doe",
		Skills:    []string{"Go", "Kubernetes", "PostgreSQL"},
		Languages: []string{"English", "Spanish"},
	})

	if !containsText(story, "Go • Kubernetes • PostgreSQL") {
		t.Error("Expected skills joined with bullet separator")
	}
	if !containsText(story, "English • Spanish") {
		t.Error("Expected languages joined with bullet separator")
	}
	if !containsText(story, "TECHNICAL SKILLS") || !containsText(story, "LANGUAGES") {
		t.Error("Expected TECHNICAL SKILLS and LANGUAGES headings")
	}
}

func TestBuildStoryDeterminism(t *testing.T) {
	content := types.StructuredResume{
		Name:    "Jane Doe",
		Summary: "Engineer.",
		Skills:  []string{"Go"},
	}

	first := paragraphTexts(buildStory(content))
	second := paragraphTexts(buildStory(content))

	if len(first) != len(second) {
		t.Fatalf("Expected identical story length, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Story diverged at %d: '%s' vs '%s'", i, first[i], second[i])
		}
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := Render(types.StructuredResume{
		Name:    "Jane Doe",
		Contact: types.ResumeContact{Email: "jane@example.com"},
		Summary: "Engineer with ten years of experience.",
		Skills:  []string{"Go", "Kubernetes"},
	})
	if err != nil {
		t.Fatalf("Expected render to succeed, got: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("Expected PDF magic bytes, got %q", data[:min(8, len(data))])
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRenderToUnwritableDestination(t *testing.T) {
	err := RenderTo(failingWriter{}, types.StructuredResume{Name: "Jane Doe"})
	if err == nil {
		t.Fatal("Expected render error for failing writer")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Type != apperrors.ErrorTypeRender {
		t.Errorf("Expected render error type, got '%s'", appErr.Type)
	}
	if appErr.Code != apperrors.ErrCodeRenderFailed {
		t.Errorf("Expected code '%s', got '%s'", apperrors.ErrCodeRenderFailed, appErr.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	content := types.StructuredResume{
		Name:    "Jane Doe",
		Contact: types.ResumeContact{Email: "jane@example.com", Phone: "+1 415 555 2671"},
		Summary: "Engineer with ten years of experience building distributed systems.",
		Experience: []types.ExperienceEntry{
			{Title: "Senior Engineer", Company: "Acme", Duration: "2020 - 2024", Achievements: []string{"Shipped the thing", "Cut latency in half"}},
		},
		Education: []types.EducationEntry{{Degree: "BS Computer Science", Institution: "State University", Year: "2019"}},
		Skills:    []string{"Go", "Kubernetes", "PostgreSQL"},
	}

	for b.Loop() {
		if _, err := Render(content); err != nil {
			b.Fatal(err)
		}
	}
}
