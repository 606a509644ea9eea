package ats

import (
	"testing"
)

func TestExtractContactInfo(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantEmail    string
		wantPhone    string
		wantLinkedIn string
	}{
		{
			name:         "all channels present",
			text:         "Reach me at jane.doe@example.com or +1 (415) 555-2671, linkedin.com/in/janedoe",
			wantEmail:    "jane.doe@example.com",
			wantPhone:    "+1 (415) 555-2671",
			wantLinkedIn: "linkedin.com/in/janedoe",
		},
		{
			name:      "plain ten digit phone",
			text:      "Call 4155552671 anytime",
			wantPhone: "4155552671",
		},
		{
			name: "short number rejected",
			text: "Suite 415, floor 12",
		},
		{
			name:      "dotted phone",
			text:      "phone: 415.555.2671",
			wantPhone: "415.555.2671",
		},
		{
			name:      "first email wins",
			text:      "primary@example.com and backup@example.org",
			wantEmail: "primary@example.com",
		},
		{
			name:         "uppercase linkedin host",
			text:         "LinkedIn.com/in/jane-doe-42",
			wantLinkedIn: "LinkedIn.com/in/jane-doe-42",
		},
		{
			name: "no signals",
			text: "A resume with no contact details at all.",
		},
		{
			name: "empty text",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ExtractContactInfo(tt.text)

			checkFirst := func(label, want string, got []string) {
				t.Helper()
				if want == "" {
					if len(got) != 0 {
						t.Errorf("Expected no %s, got %v", label, got)
					}
					return
				}
				if len(got) != 1 {
					t.Errorf("Expected exactly one %s, got %v", label, got)
					return
				}
				if got[0] != want {
					t.Errorf("Expected %s '%s', got '%s'", label, want, got[0])
				}
			}

			checkFirst("email", tt.wantEmail, info.Emails)
			checkFirst("phone", tt.wantPhone, info.Phones)
			checkFirst("linkedin", tt.wantLinkedIn, info.LinkedIn)
		})
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "plain two token name",
			text:     "Jane Doe\njane@example.com",
			expected: "Jane Doe",
		},
		{
			name:     "honorific stripped",
			text:     "Dr. Jane A. Doe\nCardiologist",
			expected: "Jane A. Doe",
		},
		{
			name:     "four token name accepted",
			text:     "Jane Alice Beth Doe",
			expected: "Jane Alice Beth Doe",
		},
		{
			name:     "single token falls back",
			text:     "Jane\njane@example.com",
			expected: "Professional",
		},
		{
			name:     "five token heading falls back",
			text:     "Summary of My Key Qualifications\nExperienced engineer",
			expected: "Professional",
		},
		{
			name:     "leading blank lines skipped",
			text:     "\n\n  Jane Doe  \nEngineer",
			expected: "Jane Doe",
		},
		{
			name:     "honorific case insensitive",
			text:     "MRS. Jane Doe",
			expected: "Jane Doe",
		},
		{
			name:     "empty text falls back",
			text:     "",
			expected: "Professional",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractName(tt.text); got != tt.expected {
				t.Errorf("Expected name '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestDetectSections(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected map[string]bool
	}{
		{
			name: "typical resume headings",
			text: "PROFESSIONAL EXPERIENCE\nEDUCATION\nTECHNICAL SKILLS\nPROJECTS",
			expected: map[string]bool{
				"experience": true, "education": true, "skills": true,
				"projects": true, "certifications": false, "languages": false,
			},
		},
		{
			name: "alternation variants",
			text: "Work History\nUniversity of Somewhere\nPortfolio\nCertificates\nLinguistic ability",
			expected: map[string]bool{
				"experience": true, "education": true, "skills": false,
				"projects": true, "certifications": true, "languages": true,
			},
		},
		{
			name: "no sections",
			text: "Just a paragraph about nothing in particular.",
			expected: map[string]bool{
				"experience": false, "education": false, "skills": false,
				"projects": false, "certifications": false, "languages": false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectSections(tt.text)
			for _, section := range SectionNames {
				if got[section] != tt.expected[section] {
					t.Errorf("Section '%s': expected %v, got %v", section, tt.expected[section], got[section])
				}
			}
		})
	}
}

func TestParseNeverFails(t *testing.T) {
	facts := Parse("")
	if facts.Name != "Professional" {
		t.Errorf("Expected fallback name, got '%s'", facts.Name)
	}
	if len(facts.Contact.Emails) != 0 || len(facts.Contact.Phones) != 0 || len(facts.Contact.LinkedIn) != 0 {
		t.Errorf("Expected empty contact info, got %+v", facts.Contact)
	}
	if len(facts.Sections) != len(SectionNames) {
		t.Errorf("Expected %d section entries, got %d", len(SectionNames), len(facts.Sections))
	}
}

func BenchmarkParse(b *testing.B) {
	text := "Jane A. Doe\njane.doe@example.com | +1 (415) 555-2671 | linkedin.com/in/janedoe\n\nPROFESSIONAL EXPERIENCE\nSenior Engineer - Acme Corp\n\nEDUCATION\nBS Computer Science - State University\n\nTECHNICAL SKILLS\nGo, Python, SQL"

	for b.Loop() {
		Parse(text)
	}
}
