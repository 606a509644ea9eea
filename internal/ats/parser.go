package ats

import (
	"regexp"
	"strings"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

// Each extraction pattern is a named package-level predicate so it can be
// tested in isolation against a fixed corpus.
var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`[+]?\(?[0-9]{1,4}\)?[-\s.]?\(?[0-9]{1,4}\)?[-\s.]?[0-9]{1,4}[-\s.]?[0-9]{1,9}`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)

	honorificPattern = regexp.MustCompile(`(?i)\b(mr|mrs|ms|dr|prof)\.`)
	nonDigitPattern  = regexp.MustCompile(`\D`)
)

// SectionNames lists the standard resume sections in detection order.
var SectionNames = []string{"experience", "education", "skills", "projects", "certifications", "languages"}

var sectionPatterns = map[string]*regexp.Regexp{
	"experience":     regexp.MustCompile(`experience|work history|employment`),
	"education":      regexp.MustCompile(`education|academic|degree|university`),
	"skills":         regexp.MustCompile(`skills|technical skills`),
	"projects":       regexp.MustCompile(`projects?|portfolio`),
	"certifications": regexp.MustCompile(`certifications?|certificates?`),
	"languages":      regexp.MustCompile(`languages?|linguistic`),
}

// ExtractContactInfo scans the whole text for contact channels. Each channel
// keeps its first match only; a phone candidate qualifies only if its
// digit-only form has at least 10 digits. Absence is a valid state, never an
// error.
func ExtractContactInfo(text string) types.ContactInfo {
	info := types.ContactInfo{
		Emails:   []string{},
		Phones:   []string{},
		LinkedIn: []string{},
	}

	if email := emailPattern.FindString(text); email != "" {
		info.Emails = append(info.Emails, email)
	}

	for _, candidate := range phonePattern.FindAllString(text, -1) {
		digits := nonDigitPattern.ReplaceAllString(candidate, "")
		if len(digits) >= 10 {
			info.Phones = append(info.Phones, strings.TrimSpace(candidate))
			break
		}
	}

	if profile := linkedinPattern.FindString(text); profile != "" {
		info.LinkedIn = append(info.LinkedIn, profile)
	}

	return info
}

// ExtractName takes the first non-blank line, strips honorific prefixes, and
// accepts the result as a name only if it has 2 to 4 whitespace-separated
// tokens. Anything else falls back to "Professional".
func ExtractName(text string) string {
	var firstLine string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			firstLine = trimmed
			break
		}
	}
	if firstLine == "" {
		return "Professional"
	}

	name := strings.TrimSpace(honorificPattern.ReplaceAllString(firstLine, ""))
	if tokens := strings.Fields(name); len(tokens) >= 2 && len(tokens) <= 4 {
		return strings.Join(tokens, " ")
	}
	return "Professional"
}

// DetectSections reports which of the six standard sections appear anywhere
// in the lowercased text.
func DetectSections(text string) map[string]bool {
	lower := strings.ToLower(text)
	sections := make(map[string]bool, len(sectionPatterns))
	for name, pattern := range sectionPatterns {
		sections[name] = pattern.MatchString(lower)
	}
	return sections
}

// Parse derives structured facts from extracted resume text. It is a pure
// function and never fails; missing signals yield empty or false values.
func Parse(text string) types.ResumeFacts {
	return types.ResumeFacts{
		Name:     ExtractName(text),
		Contact:  ExtractContactInfo(text),
		Sections: DetectSections(text),
		FullText: text,
	}
}
