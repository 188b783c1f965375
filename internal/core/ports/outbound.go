package ports

import (
	"context"
	"time"

	"github.com/kirillkom/docmind/internal/core/domain"
)

// TextRecognizer is one OCR engine behind a narrow capability interface.
type TextRecognizer interface {
	ID() string
	Recognize(ctx context.Context, input domain.DocumentInput) (domain.RecognitionResult, error)
}

// DocumentFetcher resolves a document URL into bytes, exactly once per invocation.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// TextCorrector reconciles several raw OCR outputs into one corrected text.
type TextCorrector interface {
	Correct(ctx context.Context, candidates []domain.RecognitionResult) (domain.FusedText, error)
}

// CategoryModel is a probabilistic classifier producing the model vote.
type CategoryModel interface {
	Classify(ctx context.Context, text string) (domain.ClassificationVote, []domain.AlternativeCategory, error)
}

// EntityExtractor produces typed entities and normalized dates from text.
// Implementations that cannot emit dates return a nil date slice; the pipeline
// then falls back to the local date extractor.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]domain.Entity, []domain.DateMention, error)
}

// AnswerGenerator creates a free-form answer from a processed document context.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question string, result *domain.ProcessingResult) (string, error)
}

// RuleClassifier is the deterministic keyword classifier. It always votes.
type RuleClassifier interface {
	Vote(text string) domain.ClassificationVote
}

// DateExtractor finds and normalizes date mentions offline.
type DateExtractor interface {
	ExtractDates(text string) []domain.DateMention
}

// LanguageDetector guesses the document language tag.
type LanguageDetector interface {
	Detect(text string) (tag string, confidence float64)
}

// MetadataGenerator derives filing metadata from classification and entities.
type MetadataGenerator interface {
	Tags(category domain.Category, languageTag string, entities []domain.Entity, dates []domain.DateMention) []string
	SuggestedName(category domain.Category, entities []domain.Entity, dates []domain.DateMention) string
	Summary(text string, category domain.Category, entities []domain.Entity, dates []domain.DateMention) string
	QualityScore(textConfidence, classificationConfidence float64, entityCount int) float64
}

// PipelineObserver receives pipeline outcome signals. Implementations must be
// safe for concurrent use; a nil observer is valid and means no-op.
type PipelineObserver interface {
	DocumentProcessed(method domain.ProcessingMethod, category domain.Category, duration time.Duration)
	EngineFailed(engineID string)
}
