package ats

import (
	"fmt"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

// Advise derives improvement notices from a score result. Checks run
// independently in a fixed order so the output sequence is stable: the two
// score-tier notices are mutually exclusive, everything else can co-occur.
func Advise(score types.ScoreResult) []types.AdvisoryNote {
	notes := []types.AdvisoryNote{}

	if score.Score < 50 {
		notes = append(notes, types.AdvisoryNote{
			Severity:    types.SeverityCritical,
			Title:       "Very Low ATS Score",
			Description: fmt.Sprintf("Score: %d/100. Major improvements needed.", score.Score),
		})
	} else if score.Score < 70 {
		notes = append(notes, types.AdvisoryNote{
			Severity:    types.SeverityWarning,
			Title:       "Low Keyword Match",
			Description: fmt.Sprintf("Matches %.2f%% of keywords.", score.KeywordMatchRate),
		})
	}

	if !score.HasContact {
		notes = append(notes, types.AdvisoryNote{
			Severity:    types.SeverityCritical,
			Title:       "Missing Email",
			Description: "Add professional email.",
		})
	}

	if !score.HasPhone {
		notes = append(notes, types.AdvisoryNote{
			Severity:    types.SeverityWarning,
			Title:       "Missing Phone",
			Description: "Add contact number.",
		})
	}

	if score.Score >= 80 {
		notes = append(notes, types.AdvisoryNote{
			Severity:    types.SeveritySuccess,
			Title:       "Excellent Score",
			Description: "Well-optimized resume.",
		})
	}

	return notes
}
