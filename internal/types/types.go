package types

// ContactInfo holds contact channels discovered in resume text. Each slice
// carries at most one entry, the first match in the document.
type ContactInfo struct {
	Emails   []string `json:"emails"`
	Phones   []string `json:"phones"`
	LinkedIn []string `json:"linkedin"`
}

// ResumeFacts represents structured facts derived from extracted resume text
type ResumeFacts struct {
	Name     string          `json:"name"`
	Contact  ContactInfo     `json:"contact"`
	Sections map[string]bool `json:"sections"`
	FullText string          `json:"fullText"`
}

// ScoreResult represents the ATS compatibility score for a resume against a
// job description
type ScoreResult struct {
	Score            int         `json:"score"`            // 0-100 blended score
	MatchedKeywords  []string    `json:"matchedKeywords"`  // sorted, capped at 30
	MissingKeywords  []string    `json:"missingKeywords"`  // sorted, capped at 30
	HasContact       bool        `json:"hasContact"`       // email found
	HasPhone         bool        `json:"hasPhone"`         // phone found
	SectionsFound    int         `json:"sectionsFound"`    // 0-6
	KeywordMatchRate float64     `json:"keywordMatchRate"` // percent, 2 decimals
	ResumeData       ResumeFacts `json:"resumeData"`
}

// Severity classifies an advisory note
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeveritySuccess  Severity = "success"
)

// AdvisoryNote is a single improvement notice derived from a ScoreResult
type AdvisoryNote struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// AnalysisReport bundles a score with its advisory notes
type AnalysisReport struct {
	Score      ScoreResult    `json:"score"`
	Advisories []AdvisoryNote `json:"advisories"`
}

// ResumeContact is the contact block of a structured resume
type ResumeContact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// ExperienceEntry is one position in the experience section
type ExperienceEntry struct {
	Title        string   `json:"title,omitempty"`
	Company      string   `json:"company,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// EducationEntry is one degree in the education section
type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// StructuredResume is the schema the AI improvement operation produces and the
// document renderer consumes. Every field is optional; the renderer omits the
// section for any absent or empty field.
type StructuredResume struct {
	Name           string            `json:"name,omitempty"`
	Contact        ResumeContact     `json:"contact,omitempty"`
	Summary        string            `json:"summary,omitempty"`
	Experience     []ExperienceEntry `json:"experience,omitempty"`
	Education      []EducationEntry  `json:"education,omitempty"`
	Skills         []string          `json:"skills,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
	Languages      []string          `json:"languages,omitempty"`
	Projects       []string          `json:"projects,omitempty"`
}

// ImproveResumeInput represents the input for the AI improvement operation
type ImproveResumeInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}
