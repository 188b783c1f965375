package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docmind/internal/core/domain"
	"github.com/kirillkom/docmind/internal/core/ports"
)

// ProcessDocumentUseCase drives one document through recognition, correction,
// classification, extraction and metadata generation. Every cloud-backed stage
// has a local fallback, so Process degrades instead of failing.
type ProcessDocumentUseCase struct {
	orchestrator *EngineOrchestrator
	corrector    ports.TextCorrector   // nil on local-only deployments
	rules        ports.RuleClassifier
	model        ports.CategoryModel   // nil when no model endpoint is configured
	remote       ports.EntityExtractor // nil when no NER endpoint is configured
	local        ports.EntityExtractor
	dates        ports.DateExtractor
	language     ports.LanguageDetector
	metadata     ports.MetadataGenerator
	observer     ports.PipelineObserver
	preferLocal  bool
}

func NewProcessDocumentUseCase(
	orchestrator *EngineOrchestrator,
	corrector ports.TextCorrector,
	rules ports.RuleClassifier,
	model ports.CategoryModel,
	remote ports.EntityExtractor,
	local ports.EntityExtractor,
	dates ports.DateExtractor,
	language ports.LanguageDetector,
	metadata ports.MetadataGenerator,
	observer ports.PipelineObserver,
	preferLocal bool,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		orchestrator: orchestrator,
		corrector:    corrector,
		rules:        rules,
		model:        model,
		remote:       remote,
		local:        local,
		dates:        dates,
		language:     language,
		metadata:     metadata,
		observer:     observer,
		preferLocal:  preferLocal,
	}
}

// Process never returns an error and never panics outward. The worst case is
// an emergency result carrying a note describing what went wrong.
func (uc *ProcessDocumentUseCase) Process(ctx context.Context, input domain.DocumentInput) (result *domain.ProcessingResult) {
	started := time.Now()

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("pipeline_panic", "document_id", id, "panic", r)
			result = uc.emergencyResult(id, fmt.Sprintf("pipeline panic: %v", r))
			uc.observe(result, time.Since(started))
		}
	}()

	result = uc.run(ctx, id, input)
	uc.observe(result, time.Since(started))
	return result
}

func (uc *ProcessDocumentUseCase) run(ctx context.Context, id string, input domain.DocumentInput) *domain.ProcessingResult {
	candidates, notes := uc.orchestrator.ExtractText(ctx, input)
	if len(candidates) == 0 {
		return uc.noTextResult(id, notes)
	}

	cloudUsed := false

	fused, usedCloud, fuseNotes := uc.fuseText(ctx, candidates)
	cloudUsed = cloudUsed || usedCloud
	notes = append(notes, fuseNotes...)

	classification, usedCloud, classifyNotes := uc.classify(ctx, fused.Text)
	cloudUsed = cloudUsed || usedCloud
	notes = append(notes, classifyNotes...)

	entities, dates, usedCloud, extractNotes := uc.extract(ctx, fused.Text)
	cloudUsed = cloudUsed || usedCloud
	notes = append(notes, extractNotes...)

	languageTag, _ := uc.language.Detect(fused.Text)

	method := domain.MethodLocal
	if cloudUsed {
		method = domain.MethodCloud
	}

	return &domain.ProcessingResult{
		ID:             id,
		Text:           fused.Text,
		TextConfidence: fused.Confidence,
		Corrections:    fused.Corrections,
		Classification: classification,
		Entities:       entities,
		Dates:          dates,
		Tags:           uc.metadata.Tags(classification.Category, languageTag, entities, dates),
		SuggestedName:  uc.metadata.SuggestedName(classification.Category, entities, dates),
		Summary:        uc.metadata.Summary(fused.Text, classification.Category, entities, dates),
		Language:       languageTag,
		QualityScore:   uc.metadata.QualityScore(fused.Confidence, classification.Confidence, len(entities)),
		Method:         method,
		Notes:          notes,
		ProcessedAt:    time.Now().UTC(),
	}
}

// fuseText asks the cloud corrector to reconcile all candidates; when the
// corrector is absent, skipped or failing, the best single candidate stands.
func (uc *ProcessDocumentUseCase) fuseText(ctx context.Context, candidates []domain.RecognitionResult) (domain.FusedText, bool, []string) {
	if uc.corrector != nil && !uc.preferLocal {
		fused, err := uc.corrector.Correct(ctx, candidates)
		if err == nil {
			return fused, true, nil
		}
		slog.Warn("text_correction_failed", "error", err)
		return bestCandidate(candidates), false, []string{fmt.Sprintf("text correction unavailable: %v", err)}
	}
	return bestCandidate(candidates), false, nil
}

// bestCandidate relies on ExtractText returning candidates sorted best-first.
func bestCandidate(candidates []domain.RecognitionResult) domain.FusedText {
	best := candidates[0]
	return domain.FusedText{
		Text:       best.Text,
		Confidence: best.Confidence,
		Source:     best.EngineID,
	}
}

func (uc *ProcessDocumentUseCase) classify(ctx context.Context, text string) (domain.Classification, bool, []string) {
	ruleVote := uc.rules.Vote(text)

	if uc.model == nil || uc.preferLocal {
		return Arbitrate(ruleVote, nil, nil), false, nil
	}

	modelVote, alternatives, err := uc.model.Classify(ctx, text)
	if err != nil {
		slog.Warn("model_classification_failed", "error", err)
		return Arbitrate(ruleVote, nil, nil), false, []string{fmt.Sprintf("model classification unavailable: %v", err)}
	}
	return Arbitrate(ruleVote, &modelVote, alternatives), true, nil
}

func (uc *ProcessDocumentUseCase) extract(ctx context.Context, text string) ([]domain.Entity, []domain.DateMention, bool, []string) {
	if uc.remote != nil && !uc.preferLocal {
		entities, dates, err := uc.remote.Extract(ctx, text)
		if err == nil {
			// Remote NER has no date model; dates always come from the
			// local extractor so normalization stays uniform.
			if dates == nil {
				dates = uc.dates.ExtractDates(text)
			}
			return entities, dates, true, nil
		}
		slog.Warn("remote_extraction_failed", "error", err)
		entities, dates, localErr := uc.local.Extract(ctx, text)
		if localErr != nil {
			return nil, nil, false, []string{
				fmt.Sprintf("remote extraction unavailable: %v", err),
				fmt.Sprintf("local extraction failed: %v", localErr),
			}
		}
		return entities, dates, false, []string{fmt.Sprintf("remote extraction unavailable: %v", err)}
	}

	entities, dates, err := uc.local.Extract(ctx, text)
	if err != nil {
		return nil, nil, false, []string{fmt.Sprintf("local extraction failed: %v", err)}
	}
	return entities, dates, false, nil
}

// noTextResult covers documents where no engine produced usable text. The
// category is explicitly "other": without text there is no evidence for the
// rule table's default either.
func (uc *ProcessDocumentUseCase) noTextResult(id string, notes []string) *domain.ProcessingResult {
	notes = append(notes, "no engine produced usable text")
	return &domain.ProcessingResult{
		ID: id,
		Classification: domain.Classification{
			Category:  domain.CategoryOther,
			Reasoning: "no usable text extracted",
			Source:    domain.VoteSourceRule,
		},
		Tags:        []string{string(domain.CategoryOther)},
		Language:    "und",
		Method:      domain.MethodLocal,
		Notes:       notes,
		ProcessedAt: time.Now().UTC(),
	}
}

func (uc *ProcessDocumentUseCase) emergencyResult(id, note string) *domain.ProcessingResult {
	return &domain.ProcessingResult{
		ID: id,
		Classification: domain.Classification{
			Category:  domain.CategoryOther,
			Reasoning: "emergency fallback",
			Source:    domain.VoteSourceRule,
		},
		Tags:        []string{"error"},
		Language:    "und",
		Method:      domain.MethodEmergency,
		Notes:       []string{note},
		ProcessedAt: time.Now().UTC(),
	}
}

func (uc *ProcessDocumentUseCase) observe(result *domain.ProcessingResult, duration time.Duration) {
	if uc.observer != nil {
		uc.observer.DocumentProcessed(result.Method, result.Classification.Category, duration)
	}
	slog.Info("document_processed",
		"document_id", result.ID,
		"method", result.Method,
		"category", result.Classification.Category,
		"quality", result.QualityScore,
		"duration_ms", duration.Milliseconds(),
	)
}
