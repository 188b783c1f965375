package ports

import (
	"context"

	"github.com/kirillkom/docmind/internal/core/domain"
)

// DocumentProcessor is the inbound contract for the intelligence pipeline.
// Process never fails: on total breakdown it returns the emergency result.
type DocumentProcessor interface {
	Process(ctx context.Context, input domain.DocumentInput) *domain.ProcessingResult
}

// QuestionAnswerer answers ad-hoc questions about an already-processed document.
// It never re-runs recognition and never fails.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string, result *domain.ProcessingResult) domain.Answer
}
