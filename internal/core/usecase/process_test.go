package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/docmind/internal/classify/rules"
	"github.com/kirillkom/docmind/internal/core/domain"
	"github.com/kirillkom/docmind/internal/core/ports"
	"github.com/kirillkom/docmind/internal/extract/local"
	"github.com/kirillkom/docmind/internal/lang"
	"github.com/kirillkom/docmind/internal/metadata"
)

func newTestUseCase(
	engines []ports.TextRecognizer,
	corrector ports.TextCorrector,
	model ports.CategoryModel,
	remote ports.EntityExtractor,
	observer ports.PipelineObserver,
	preferLocal bool,
) *ProcessDocumentUseCase {
	extractor := local.NewExtractor()
	return NewProcessDocumentUseCase(
		NewEngineOrchestrator(engines, nil, nil, observer),
		corrector,
		rules.NewClassifier(),
		model,
		remote,
		extractor,
		extractor,
		lang.NewDetector(),
		metadata.NewGenerator(),
		observer,
		preferLocal,
	)
}

func TestProcessSurvivesPanickingDependencies(t *testing.T) {
	observer := &fakeObserver{}
	uc := newTestUseCase(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "ok", result: domain.RecognitionResult{Text: "Facture no 2024-001", Confidence: 0.9}},
		},
		&fakeCorrector{panics: true},
		nil, nil, observer, false,
	)

	result := uc.Process(context.Background(), domain.DocumentInput{ID: "doc-1", Content: []byte("doc")})

	if result == nil {
		t.Fatal("Process must never return nil")
	}
	if result.Method != domain.MethodEmergency {
		t.Fatalf("expected emergency method, got %s", result.Method)
	}
	if result.Classification.Category != domain.CategoryOther {
		t.Fatalf("expected category other, got %s", result.Classification.Category)
	}
	if len(result.Tags) != 1 || result.Tags[0] != "error" {
		t.Fatalf("expected tags [error], got %v", result.Tags)
	}
	if len(observer.processed) != 1 || observer.processed[0] != domain.MethodEmergency {
		t.Fatalf("expected observer to see the emergency outcome, got %v", observer.processed)
	}
}

func TestProcessEmptyDocumentClassifiesAsOther(t *testing.T) {
	uc := newTestUseCase(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "blank", result: domain.RecognitionResult{Text: "   ", Confidence: 0.9}},
			&fakeRecognizer{id: "low", result: domain.RecognitionResult{Text: "x", Confidence: 0.05}},
		},
		nil, nil, nil, nil, false,
	)

	result := uc.Process(context.Background(), domain.DocumentInput{ID: "doc-2", Content: []byte("blank page")})

	if result.Classification.Category != domain.CategoryOther {
		t.Fatalf("expected category other for empty text, got %s", result.Classification.Category)
	}
	if result.Method != domain.MethodLocal {
		t.Fatalf("expected local method, got %s", result.Method)
	}
	if result.Text != "" || result.TextConfidence != 0 {
		t.Fatalf("expected empty text result, got %+v", result)
	}
	found := false
	for _, note := range result.Notes {
		if strings.Contains(note, "no engine produced usable text") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a no-usable-text note, got %v", result.Notes)
	}
}

func TestProcessModelTimeoutFallsBackToRuleVote(t *testing.T) {
	uc := newTestUseCase(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "ocr", result: domain.RecognitionResult{
				Text:       "Assurance maladie CSS. Prime mensuelle: CHF 320.50. Valable pour 2024.",
				Confidence: 0.9,
			}},
		},
		nil,
		&fakeModel{err: context.DeadlineExceeded},
		nil, nil, false,
	)

	result := uc.Process(context.Background(), domain.DocumentInput{ID: "doc-3", Content: []byte("doc")})

	if result.Classification.Category != domain.CategoryInsurance {
		t.Fatalf("expected insurance from the rule vote, got %s", result.Classification.Category)
	}
	if result.Classification.Source != domain.VoteSourceRule {
		t.Fatalf("expected rule vote as source, got %s", result.Classification.Source)
	}
	found := false
	for _, note := range result.Notes {
		if strings.Contains(note, "model classification unavailable") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a model failure note, got %v", result.Notes)
	}
	if result.Method != domain.MethodLocal {
		t.Fatalf("expected local method when every cloud stage failed, got %s", result.Method)
	}
}

func TestProcessCloudPathFusesAndExtracts(t *testing.T) {
	corrector := &fakeCorrector{fused: domain.FusedText{
		Text:        "Invoice No INV-2024-001 dated 15.03.2024 from Banque Cantonale. Montant: CHF 450.00",
		Confidence:  0.97,
		Source:      "correction",
		Corrections: []string{"0CR -> OCR"},
	}}
	model := &fakeModel{
		vote: domain.ClassificationVote{Category: domain.CategoryFinancial, Confidence: 0.98, Source: domain.VoteSourceModel},
		alternatives: []domain.AlternativeCategory{
			{Category: domain.CategoryLegal, Score: 0.1},
		},
	}
	remote := &fakeExtractor{
		entities: []domain.Entity{{Text: "Banque Cantonale", Kind: domain.EntityOrganization, Confidence: 0.93}},
	}

	uc := newTestUseCase(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "ocr", result: domain.RecognitionResult{Text: "raw ocr", Confidence: 0.8}},
		},
		corrector, model, remote, nil, false,
	)

	result := uc.Process(context.Background(), domain.DocumentInput{ID: "doc-4", Content: []byte("doc")})

	if result.Method != domain.MethodCloud {
		t.Fatalf("expected cloud method, got %s", result.Method)
	}
	if result.TextConfidence != 0.97 || len(result.Corrections) != 1 {
		t.Fatalf("expected fused text to carry through, got %+v", result)
	}
	if result.Classification.Category != domain.CategoryFinancial || result.Classification.Source != domain.VoteSourceModel {
		t.Fatalf("expected model classification to win, got %+v", result.Classification)
	}
	if len(result.Entities) != 1 || result.Entities[0].Text != "Banque Cantonale" {
		t.Fatalf("expected remote entities, got %+v", result.Entities)
	}
	// Remote NER emits no dates; the local extractor must fill them in.
	if len(result.Dates) == 0 || result.Dates[0].Normalized != "15/03/2024" {
		t.Fatalf("expected locally normalized date 15/03/2024, got %+v", result.Dates)
	}
	if result.SuggestedName == "" || result.Summary == "" || len(result.Tags) == 0 {
		t.Fatalf("expected metadata to be generated, got %+v", result)
	}
}

func TestProcessCorrectionFailureUsesBestCandidate(t *testing.T) {
	uc := newTestUseCase(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "weak", result: domain.RecognitionResult{Text: "weak reading", Confidence: 0.6}},
			&fakeRecognizer{id: "strong", result: domain.RecognitionResult{Text: "strong reading", Confidence: 0.85}},
		},
		&fakeCorrector{err: errors.New("service unavailable")},
		nil, nil, nil, false,
	)

	result := uc.Process(context.Background(), domain.DocumentInput{ID: "doc-5", Content: []byte("doc")})

	if result.Text != "strong reading" || result.TextConfidence != 0.85 {
		t.Fatalf("expected best candidate fallback, got %+v", result)
	}
	found := false
	for _, note := range result.Notes {
		if strings.Contains(note, "text correction unavailable") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a correction failure note, got %v", result.Notes)
	}
}

func TestProcessPreferLocalSkipsCloudStages(t *testing.T) {
	corrector := &fakeCorrector{fused: domain.FusedText{Text: "cloud text", Confidence: 0.99}}
	model := &fakeModel{vote: domain.ClassificationVote{Category: domain.CategoryLegal, Confidence: 0.99, Source: domain.VoteSourceModel}}

	uc := newTestUseCase(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "ocr", result: domain.RecognitionResult{Text: "Contrat de bail, tribunal compétent", Confidence: 0.8}},
		},
		corrector, model, nil, nil, true,
	)

	result := uc.Process(context.Background(), domain.DocumentInput{ID: "doc-6", Content: []byte("doc")})

	if corrector.calls != 0 || model.calls != 0 {
		t.Fatalf("expected cloud stages to be skipped, corrector=%d model=%d", corrector.calls, model.calls)
	}
	if result.Method != domain.MethodLocal {
		t.Fatalf("expected local method, got %s", result.Method)
	}
	if result.Classification.Source != domain.VoteSourceRule {
		t.Fatalf("expected rule classification, got %+v", result.Classification)
	}
}

func TestProcessAssignsIDWhenMissing(t *testing.T) {
	uc := newTestUseCase(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "ocr", result: domain.RecognitionResult{Text: "some text", Confidence: 0.7}},
		},
		nil, nil, nil, nil, false,
	)

	result := uc.Process(context.Background(), domain.DocumentInput{Content: []byte("doc")})

	if result.ID == "" {
		t.Fatal("expected a generated document id")
	}
	if result.ProcessedAt.IsZero() {
		t.Fatal("expected a processing timestamp")
	}
}
