package ats

import (
	"testing"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

func TestAdvise(t *testing.T) {
	tests := []struct {
		name           string
		score          types.ScoreResult
		expectedTitles []string
	}{
		{
			name:           "low score missing all contact",
			score:          types.ScoreResult{Score: 40, HasContact: false, HasPhone: false},
			expectedTitles: []string{"Very Low ATS Score", "Missing Email", "Missing Phone"},
		},
		{
			name:           "mid score complete contact",
			score:          types.ScoreResult{Score: 60, KeywordMatchRate: 45.5, HasContact: true, HasPhone: true},
			expectedTitles: []string{"Low Keyword Match"},
		},
		{
			name:           "excellent score",
			score:          types.ScoreResult{Score: 85, HasContact: true, HasPhone: true},
			expectedTitles: []string{"Excellent Score"},
		},
		{
			name:           "boundary at 50 skips critical",
			score:          types.ScoreResult{Score: 50, HasContact: true, HasPhone: true},
			expectedTitles: []string{"Low Keyword Match"},
		},
		{
			name:           "boundary at 70 no tier note",
			score:          types.ScoreResult{Score: 70, HasContact: true, HasPhone: true},
			expectedTitles: []string{},
		},
		{
			name:           "boundary at 80 success",
			score:          types.ScoreResult{Score: 80, HasContact: true, HasPhone: true},
			expectedTitles: []string{"Excellent Score"},
		},
		{
			name:           "high score missing phone co-occur",
			score:          types.ScoreResult{Score: 85, HasContact: true, HasPhone: false},
			expectedTitles: []string{"Missing Phone", "Excellent Score"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := Advise(tt.score)

			if len(notes) != len(tt.expectedTitles) {
				t.Fatalf("Expected %d notes, got %d: %+v", len(tt.expectedTitles), len(notes), notes)
			}
			for i, title := range tt.expectedTitles {
				if notes[i].Title != title {
					t.Errorf("Note[%d]: expected title '%s', got '%s'", i, title, notes[i].Title)
				}
			}
		})
	}
}

func TestAdviseSeverityOrdering(t *testing.T) {
	notes := Advise(types.ScoreResult{Score: 40, HasContact: false, HasPhone: false})

	expected := []types.Severity{types.SeverityCritical, types.SeverityCritical, types.SeverityWarning}
	if len(notes) != len(expected) {
		t.Fatalf("Expected %d notes, got %d", len(expected), len(notes))
	}
	for i, severity := range expected {
		if notes[i].Severity != severity {
			t.Errorf("Note[%d]: expected severity '%s', got '%s'", i, severity, notes[i].Severity)
		}
	}
}
