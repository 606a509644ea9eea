package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisReport", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisReport", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "StructuredResume", &ResumeTextFormatter{})
	registry.RegisterFormatter("markdown", "StructuredResume", &ResumeMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisReport:
		return "AnalysisReport"
	case types.StructuredResume:
		return "StructuredResume"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for analysis reports
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisReport)
	if !ok {
		return "", fmt.Errorf("expected AnalysisReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.Score.Score))
	output.WriteString(fmt.Sprintf("Keyword Match Rate: %.2f%%\n", result.Score.KeywordMatchRate))
	output.WriteString(fmt.Sprintf("Sections Found: %d/6\n", result.Score.SectionsFound))
	output.WriteString(fmt.Sprintf("Email Found: %t\n", result.Score.HasContact))
	output.WriteString(fmt.Sprintf("Phone Found: %t\n\n", result.Score.HasPhone))

	if len(result.Score.MatchedKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Matched Keywords (%d):\n", len(result.Score.MatchedKeywords)))
		output.WriteString(strings.Join(result.Score.MatchedKeywords, ", "))
		output.WriteString("\n\n")
	}

	if len(result.Score.MissingKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Missing Keywords (%d):\n", len(result.Score.MissingKeywords)))
		output.WriteString(strings.Join(result.Score.MissingKeywords, ", "))
		output.WriteString("\n\n")
	}

	if len(result.Advisories) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n\n")
		for i, note := range result.Advisories {
			output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, strings.ToUpper(string(note.Severity)), note.Title))
			output.WriteString("   ")
			output.WriteString(note.Description)
			output.WriteString("\n\n")
		}
	} else {
		output.WriteString("No recommendations.\n")
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisReport"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis reports
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisReport)
	if !ok {
		return "", fmt.Errorf("expected AnalysisReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.Score.Score))
	output.WriteString(fmt.Sprintf("**Keyword Match Rate:** %.2f%%\n\n", result.Score.KeywordMatchRate))
	output.WriteString(fmt.Sprintf("**Sections Found:** %d/6\n\n", result.Score.SectionsFound))
	output.WriteString(fmt.Sprintf("**Email Found:** %t | **Phone Found:** %t\n\n", result.Score.HasContact, result.Score.HasPhone))

	if len(result.Score.MatchedKeywords) > 0 {
		output.WriteString("## Matched Keywords\n\n")
		for _, keyword := range result.Score.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}

	if len(result.Score.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, keyword := range result.Score.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}

	if len(result.Advisories) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, note := range result.Advisories {
			output.WriteString(fmt.Sprintf("### %d. %s (%s)\n\n", i+1, note.Title, note.Severity))
			output.WriteString(note.Description)
			output.WriteString("\n\n")
		}
	} else {
		output.WriteString("## No Recommendations\n\nThe resume is well optimized for this job description.\n")
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisReport"
}

// ResumeTextFormatter handles text formatting for structured resumes
type ResumeTextFormatter struct{}

func (rtf *ResumeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.StructuredResume)
	if !ok {
		return "", fmt.Errorf("expected StructuredResume, got %T", data)
	}

	var output strings.Builder

	output.WriteString(strings.ToUpper(result.Name))
	output.WriteString("\n")
	output.WriteString(contactLine(result.Contact))
	output.WriteString("\n\n")

	if result.Summary != "" {
		output.WriteString("=== PROFESSIONAL SUMMARY ===\n")
		output.WriteString(result.Summary)
		output.WriteString("\n\n")
	}

	if len(result.Experience) > 0 {
		output.WriteString("=== PROFESSIONAL EXPERIENCE ===\n")
		for _, exp := range result.Experience {
			output.WriteString(fmt.Sprintf("%s - %s", exp.Title, exp.Company))
			if exp.Duration != "" {
				output.WriteString(fmt.Sprintf(" (%s)", exp.Duration))
			}
			output.WriteString("\n")
			for _, achievement := range exp.Achievements {
				output.WriteString(fmt.Sprintf("- %s\n", achievement))
			}
			output.WriteString("\n")
		}
	}

	if len(result.Education) > 0 {
		output.WriteString("=== EDUCATION ===\n")
		for _, edu := range result.Education {
			output.WriteString(educationLine(edu))
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if len(result.Skills) > 0 {
		output.WriteString("=== TECHNICAL SKILLS ===\n")
		output.WriteString(strings.Join(result.Skills, ", "))
		output.WriteString("\n\n")
	}

	if len(result.Certifications) > 0 {
		output.WriteString("=== CERTIFICATIONS ===\n")
		for _, cert := range result.Certifications {
			output.WriteString(fmt.Sprintf("- %s\n", cert))
		}
		output.WriteString("\n")
	}

	if len(result.Languages) > 0 {
		output.WriteString("=== LANGUAGES ===\n")
		output.WriteString(strings.Join(result.Languages, ", "))
		output.WriteString("\n\n")
	}

	if len(result.Projects) > 0 {
		output.WriteString("=== PROJECTS ===\n")
		for _, project := range result.Projects {
			output.WriteString(fmt.Sprintf("- %s\n", project))
		}
	}

	return output.String(), nil
}

func (rtf *ResumeTextFormatter) SupportedType() string {
	return "StructuredResume"
}

// ResumeMarkdownFormatter handles markdown formatting for structured resumes
type ResumeMarkdownFormatter struct{}

func (rmf *ResumeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.StructuredResume)
	if !ok {
		return "", fmt.Errorf("expected StructuredResume, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# %s\n\n", result.Name))
	output.WriteString(contactLine(result.Contact))
	output.WriteString("\n\n")

	if result.Summary != "" {
		output.WriteString("## Professional Summary\n\n")
		output.WriteString(result.Summary)
		output.WriteString("\n\n")
	}

	if len(result.Experience) > 0 {
		output.WriteString("## Professional Experience\n\n")
		for _, exp := range result.Experience {
			output.WriteString(fmt.Sprintf("### %s - %s\n\n", exp.Title, exp.Company))
			if exp.Duration != "" {
				output.WriteString(fmt.Sprintf("*%s*\n\n", exp.Duration))
			}
			for _, achievement := range exp.Achievements {
				output.WriteString(fmt.Sprintf("- %s\n", achievement))
			}
			output.WriteString("\n")
		}
	}

	if len(result.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, edu := range result.Education {
			output.WriteString(fmt.Sprintf("- %s\n", educationLine(edu)))
		}
		output.WriteString("\n")
	}

	if len(result.Skills) > 0 {
		output.WriteString("## Technical Skills\n\n")
		output.WriteString(strings.Join(result.Skills, " • "))
		output.WriteString("\n\n")
	}

	if len(result.Certifications) > 0 {
		output.WriteString("## Certifications\n\n")
		for _, cert := range result.Certifications {
			output.WriteString(fmt.Sprintf("- %s\n", cert))
		}
		output.WriteString("\n")
	}

	if len(result.Languages) > 0 {
		output.WriteString("## Languages\n\n")
		output.WriteString(strings.Join(result.Languages, " • "))
		output.WriteString("\n\n")
	}

	if len(result.Projects) > 0 {
		output.WriteString("## Projects\n\n")
		for _, project := range result.Projects {
			output.WriteString(fmt.Sprintf("- %s\n", project))
		}
	}

	return output.String(), nil
}

func (rmf *ResumeMarkdownFormatter) SupportedType() string {
	return "StructuredResume"
}

func contactLine(contact types.ResumeContact) string {
	var parts []string
	for _, part := range []string{contact.Email, contact.Phone, contact.Location, contact.LinkedIn} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " | ")
}

func educationLine(edu types.EducationEntry) string {
	line := fmt.Sprintf("%s - %s", edu.Degree, edu.Institution)
	if edu.Year != "" {
		line += fmt.Sprintf(" (%s)", edu.Year)
	}
	if edu.GPA != "" {
		line += fmt.Sprintf(" | GPA: %s", edu.GPA)
	}
	return line
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
