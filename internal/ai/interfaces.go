package ai

import (
	"context"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"
)

// AIProvider interface for different AI implementations
// ImproveResume returns token usage information - callers can ignore it if not needed
type AIProvider interface {
	ImproveResume(ctx context.Context, input types.ImproveResumeInput) (types.StructuredResume, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
