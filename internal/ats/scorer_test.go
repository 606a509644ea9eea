package ats

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"
)

const sampleResume = `Jane A. Doe
jane.doe@example.com | +1 (415) 555-2671 | linkedin.com/in/janedoe

PROFESSIONAL EXPERIENCE
Senior Software Engineer - Acme Corp
Built distributed systems in Go and Python

EDUCATION
BS Computer Science - State University

TECHNICAL SKILLS
Go, Python, Kubernetes, PostgreSQL`

func TestScoreDeterminism(t *testing.T) {
	jobDescription := "Looking for a software engineer with Go and Kubernetes experience"

	first := Score(sampleResume, jobDescription)
	second := Score(sampleResume, jobDescription)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results on repeated invocation:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestScoreBounds(t *testing.T) {
	tests := []struct {
		name           string
		resumeText     string
		jobDescription string
	}{
		{"empty inputs", "", ""},
		{"full resume strong match", sampleResume, "software engineer Go Python Kubernetes PostgreSQL distributed systems"},
		{"no overlap", sampleResume, "veterinary dentistry practitioner wanted"},
		{"resume only", sampleResume, ""},
		{"job only", "", "software engineer with Go experience"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.resumeText, tt.jobDescription)
			if result.Score < 0 || result.Score > 100 {
				t.Errorf("Score %d out of [0,100]", result.Score)
			}
		})
	}
}

func TestScoreDegenerateJobDescription(t *testing.T) {
	// Stop words and short tokens only: no keywords survive the filter, so the
	// score degrades to the structure component alone.
	result := Score(sampleResume, "the and for")

	if result.KeywordMatchRate != 0 {
		t.Errorf("Expected match rate 0, got %v", result.KeywordMatchRate)
	}
	if len(result.MatchedKeywords) != 0 || len(result.MissingKeywords) != 0 {
		t.Errorf("Expected empty keyword lists, got matched=%v missing=%v", result.MatchedKeywords, result.MissingKeywords)
	}

	// sampleResume has email, phone, and the experience/education/skills
	// sections: structure score 10+10+30 = 50, floor(50*0.35) = 17.
	if !result.HasContact || !result.HasPhone {
		t.Fatalf("Expected contact and phone present, got %+v", result)
	}
	if result.SectionsFound != 3 {
		t.Fatalf("Expected 3 sections found, got %d", result.SectionsFound)
	}
	if result.Score != 17 {
		t.Errorf("Expected structure-only score 17, got %d", result.Score)
	}
}

func TestScoreKeywordPartition(t *testing.T) {
	tests := []struct {
		name           string
		resumeText     string
		jobDescription string
	}{
		{"partial overlap", "golang engineer with kubernetes", "golang engineer needed, terraform required"},
		{"no overlap", "completely unrelated text here", "quantum basket weaving specialist"},
		{"full overlap", "golang kubernetes terraform", "golang kubernetes terraform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.resumeText, tt.jobDescription)

			wanted := jobKeywords(tt.jobDescription)
			union := append(append([]string{}, result.MatchedKeywords...), result.MissingKeywords...)
			if len(union) != len(wanted) {
				t.Errorf("Expected matched+missing to cover %d keywords, got %d", len(wanted), len(union))
			}
			for _, token := range union {
				if _, ok := wanted[token]; !ok {
					t.Errorf("Token '%s' not in job keyword set", token)
				}
			}

			overlap := map[string]bool{}
			for _, token := range result.MatchedKeywords {
				overlap[token] = true
			}
			for _, token := range result.MissingKeywords {
				if overlap[token] {
					t.Errorf("Token '%s' appears in both matched and missing", token)
				}
			}
		})
	}
}

func TestScoreKeywordListCap(t *testing.T) {
	words := make([]string, 50)
	for i := range words {
		words[i] = fmt.Sprintf("keyword%02d", i)
	}
	jobDescription := strings.Join(words, " ")
	resumeText := jobDescription

	result := Score(resumeText, jobDescription)

	if len(result.MatchedKeywords) != 30 {
		t.Errorf("Expected matched list capped at 30, got %d", len(result.MatchedKeywords))
	}
	if !sort.StringsAreSorted(result.MatchedKeywords) {
		t.Errorf("Expected matched keywords sorted, got %v", result.MatchedKeywords)
	}
	if result.KeywordMatchRate != 100 {
		t.Errorf("Expected 100%% match rate, got %v", result.KeywordMatchRate)
	}
}

func TestScoreStopWordFilter(t *testing.T) {
	// Every job token is either a stop word or too short except "engineer".
	result := Score("engineer", "the and for our an engineer")

	keys := append(append([]string{}, result.MatchedKeywords...), result.MissingKeywords...)
	if len(keys) != 1 || keys[0] != "engineer" {
		t.Errorf("Expected single keyword 'engineer', got %v", keys)
	}
	if result.KeywordMatchRate != 100 {
		t.Errorf("Expected match rate 100, got %v", result.KeywordMatchRate)
	}
}

func TestScoreCeiling(t *testing.T) {
	// Perfect keyword match with full structure: 100*0.65 + 80*0.35 = 93,
	// under the min(100, ...) cap. The cap only binds hypothetical inputs
	// beyond the weighting's natural ceiling, and the structure component is
	// a capped contribution, not a gate.
	resume := sampleResume + "\nPROJECTS\nCERTIFICATIONS\nLANGUAGES"
	result := Score(resume, "engineer golang kubernetes")

	if result.SectionsFound != 6 {
		t.Fatalf("Expected all 6 sections, got %d", result.SectionsFound)
	}
	if result.Score > 100 {
		t.Errorf("Score %d exceeds cap", result.Score)
	}
}

func BenchmarkScore(b *testing.B) {
	jobDescription := "Looking for a senior software engineer with Go, Kubernetes, PostgreSQL and distributed systems experience"

	for b.Loop() {
		Score(sampleResume, jobDescription)
	}
}
