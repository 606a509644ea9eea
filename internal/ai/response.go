package ai

import (
	"encoding/json"
	"strings"

	apperrors "github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

const responsePreviewLimit = 500

// stripFencing removes markdown code fences that models sometimes wrap around
// JSON output despite instructions not to.
func stripFencing(raw string) string {
	s := strings.TrimSpace(raw)

	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if strings.Contains(s, "```") {
		parts := strings.Split(s, "```")
		if len(parts) >= 3 {
			s = parts[1]
		}
	}

	return strings.TrimSpace(s)
}

// ParseStructuredResume decodes a model response into a structured resume.
// Fenced output is tolerated; anything that still isn't valid JSON afterwards
// fails with a generation error carrying a response preview for debugging.
func ParseStructuredResume(raw string) (types.StructuredResume, error) {
	cleaned := stripFencing(raw)

	var resume types.StructuredResume
	if err := json.Unmarshal([]byte(cleaned), &resume); err != nil {
		preview := cleaned
		if len(preview) > responsePreviewLimit {
			preview = preview[:responsePreviewLimit]
		}
		return types.StructuredResume{}, apperrors.NewGenerationError(apperrors.ErrCodeGenerationMalformed,
			"AI returned invalid JSON", err).WithContext("response_preview", preview)
	}

	return resume, nil
}
