package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/docmind/internal/core/domain"
	"github.com/kirillkom/docmind/internal/core/ports"
)

// AnswerQuestionUseCase answers questions about one already processed
// document. Answers are grounded in the ProcessingResult only; the use case
// never invents facts the pipeline did not extract.
type AnswerQuestionUseCase struct {
	generator ports.AnswerGenerator // nil on local-only deployments
}

func NewAnswerQuestionUseCase(generator ports.AnswerGenerator) *AnswerQuestionUseCase {
	return &AnswerQuestionUseCase{generator: generator}
}

// Answer never returns an error and never panics outward. When the cloud
// generator is absent or failing, a keyword responder over the extracted
// fields takes over.
func (uc *AnswerQuestionUseCase) Answer(ctx context.Context, question string, result *domain.ProcessingResult) (answer domain.Answer) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("answer_panic", "panic", r)
			answer = domain.Answer{
				Text:       "Unable to answer the question about this document.",
				Confidence: 0,
				Method:     domain.MethodEmergency,
			}
		}
	}()

	if result == nil {
		return domain.Answer{
			Text:       "No processed document is available to answer from.",
			Confidence: 0,
			Method:     domain.MethodLocal,
		}
	}

	if uc.generator != nil {
		text, err := uc.generator.GenerateAnswer(ctx, question, result)
		if err == nil && strings.TrimSpace(text) != "" {
			return domain.Answer{Text: text, Confidence: 0.9, Method: domain.MethodCloud}
		}
		if err != nil {
			slog.Warn("answer_generation_failed", "error", err)
		}
	}

	return localAnswer(question, result)
}

// localAnswer matches question keywords against the extracted fields in a
// fixed priority order, so the same question always yields the same answer.
func localAnswer(question string, result *domain.ProcessingResult) domain.Answer {
	q := strings.ToLower(question)

	if containsAny(q, "date", "when", "quand", "кога", "дата") {
		if len(result.Dates) > 0 {
			return typedAnswer(fmt.Sprintf("The document is dated %s.", result.Dates[0].Normalized), 0.85)
		}
	}

	if containsAny(q, "who", "name", "qui", "nom", "кой", "име") {
		if person := firstEntity(result.Entities, domain.EntityPerson); person != "" {
			return typedAnswer(fmt.Sprintf("The document mentions %s.", person), 0.85)
		}
	}

	if containsAny(q, "organization", "organisation", "company", "university", "société", "université", "организация") {
		if org := firstEntity(result.Entities, domain.EntityOrganization); org != "" {
			return typedAnswer(fmt.Sprintf("The document was issued by %s.", org), 0.85)
		}
	}

	if containsAny(q, "amount", "cost", "price", "montant", "prix", "сума", "сумма") {
		if money := firstEntity(result.Entities, domain.EntityMoney); money != "" {
			return typedAnswer(fmt.Sprintf("The document mentions the amount %s.", money), 0.85)
		}
	}

	if containsAny(q, "type", "kind", "category", "catégorie", "вид", "категория") {
		return typedAnswer(fmt.Sprintf("This is a %s document.", result.Classification.Category), 0.9)
	}

	if containsAny(q, "language", "langue", "език", "язык") {
		return typedAnswer(fmt.Sprintf("The document language is %s.", result.Language), 0.85)
	}

	// Generic fallback: restate what the pipeline knows.
	text := fmt.Sprintf("This is a %s document.", result.Classification.Category)
	if result.Summary != "" {
		text = result.Summary
	}
	return domain.Answer{Text: text, Confidence: 0.6, Method: domain.MethodLocal}
}

func typedAnswer(text string, confidence float64) domain.Answer {
	return domain.Answer{Text: text, Confidence: confidence, Method: domain.MethodLocal}
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func firstEntity(entities []domain.Entity, kind domain.EntityKind) string {
	for _, ent := range entities {
		if ent.Kind == kind {
			return ent.Text
		}
	}
	return ""
}
