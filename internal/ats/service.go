package ats

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/config"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

// Service runs the full analysis pipeline: input validation, scoring and
// advisory generation. Thresholds come from the analysis configuration.
type Service struct {
	minJobDescriptionChars int
	minResumeTextChars     int
	logger                 *errors.Logger
}

// NewService creates an analysis service with the configured thresholds
func NewService(cfg config.AnalysisConfig, logger *errors.Logger) *Service {
	return &Service{
		minJobDescriptionChars: cfg.MinJobDescriptionChars,
		minResumeTextChars:     cfg.MinResumeTextChars,
		logger:                 logger,
	}
}

// ValidateJobDescription rejects job descriptions below the configured
// minimum length. Length is measured after trimming surrounding whitespace.
func (s *Service) ValidateJobDescription(jobDescription string) error {
	if len(strings.TrimSpace(jobDescription)) < s.minJobDescriptionChars {
		return errors.NewValidationError(errors.ErrCodeJobDescTooShort,
			fmt.Sprintf("Job description too short, need at least %d characters", s.minJobDescriptionChars), nil).
			WithContext("min_chars", s.minJobDescriptionChars)
	}
	return nil
}

// ValidateResumeText rejects extracted resume text below the configured
// minimum length
func (s *Service) ValidateResumeText(resumeText string) error {
	if len(strings.TrimSpace(resumeText)) < s.minResumeTextChars {
		return errors.NewValidationError(errors.ErrCodeResumeTooShort,
			fmt.Sprintf("Insufficient resume text, need at least %d characters", s.minResumeTextChars), nil).
			WithContext("min_chars", s.minResumeTextChars)
	}
	return nil
}

// Analyze validates both inputs, scores the resume against the job
// description and derives advisory notes from the score.
func (s *Service) Analyze(resumeText, jobDescription string) (types.AnalysisReport, error) {
	if err := s.ValidateJobDescription(jobDescription); err != nil {
		return types.AnalysisReport{}, err
	}
	if err := s.ValidateResumeText(resumeText); err != nil {
		return types.AnalysisReport{}, err
	}

	score := Score(resumeText, jobDescription)
	report := types.AnalysisReport{
		Score:      score,
		Advisories: Advise(score),
	}

	if s.logger != nil {
		s.logger.Info("Resume analyzed",
			"score", score.Score,
			"keyword_match_rate", score.KeywordMatchRate,
			"matched_keywords", len(score.MatchedKeywords),
			"missing_keywords", len(score.MissingKeywords))
	}

	return report, nil
}

// Rescore reconstructs plain text from a structured resume and runs it
// through the analysis pipeline against the same job description
func (s *Service) Rescore(resume types.StructuredResume, jobDescription string) (types.AnalysisReport, error) {
	return s.Analyze(FlattenResume(resume), jobDescription)
}

// FlattenResume reconstructs scoreable plain text from a structured resume.
// Section order matters for name detection: the name line must come first.
func FlattenResume(resume types.StructuredResume) string {
	var b strings.Builder

	b.WriteString(resume.Name)
	b.WriteString("\n")
	if contactJSON, err := json.Marshal(resume.Contact); err == nil {
		b.Write(contactJSON)
	}
	b.WriteString("\n")
	b.WriteString(resume.Summary)
	b.WriteString("\n")

	for _, exp := range resume.Experience {
		b.WriteString(exp.Title)
		b.WriteString(" ")
		b.WriteString(exp.Company)
		b.WriteString("\n")
		b.WriteString(exp.Duration)
		b.WriteString("\n")
		b.WriteString(strings.Join(exp.Achievements, "\n"))
		b.WriteString("\n")
	}

	for _, edu := range resume.Education {
		b.WriteString(edu.Degree)
		b.WriteString(" ")
		b.WriteString(edu.Institution)
		b.WriteString("\n")
	}

	b.WriteString(strings.Join(resume.Skills, " "))

	return b.String()
}
