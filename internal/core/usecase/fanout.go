package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/kirillkom/docmind/internal/core/domain"
	"github.com/kirillkom/docmind/internal/core/ports"
)

const defaultEngineTimeout = 45 * time.Second

// EngineOrchestrator fans a document out to every configured OCR engine
// concurrently and returns the usable results ranked by confidence.
// Per-engine failures never surface to the caller.
type EngineOrchestrator struct {
	engines  []ports.TextRecognizer
	fetcher  ports.DocumentFetcher
	timeouts map[string]time.Duration
	observer ports.PipelineObserver
}

func NewEngineOrchestrator(
	engines []ports.TextRecognizer,
	fetcher ports.DocumentFetcher,
	timeouts map[string]time.Duration,
	observer ports.PipelineObserver,
) *EngineOrchestrator {
	return &EngineOrchestrator{
		engines:  engines,
		fetcher:  fetcher,
		timeouts: timeouts,
		observer: observer,
	}
}

// ExtractText fetches the document once, runs all engines in parallel and
// keeps only results passing the validity filter (confidence > 0.1, non-empty
// text). The returned slice is sorted best-first and may be empty.
func (o *EngineOrchestrator) ExtractText(ctx context.Context, input domain.DocumentInput) ([]domain.RecognitionResult, []string) {
	var notes []string

	if len(input.Content) == 0 && input.URL != "" {
		if o.fetcher == nil {
			return nil, []string{"no document fetcher configured for url input"}
		}
		content, err := o.fetcher.Fetch(ctx, input.URL)
		if err != nil {
			return nil, []string{fmt.Sprintf("document fetch failed: %v", err)}
		}
		input.Content = content
	}
	if len(input.Content) == 0 {
		return nil, []string{"empty document content"}
	}

	results := make([]domain.RecognitionResult, len(o.engines))
	var wg sync.WaitGroup
	for i, engine := range o.engines {
		wg.Add(1)
		go func(slot int, engine ports.TextRecognizer) {
			defer wg.Done()
			results[slot] = o.runEngine(ctx, engine, input)
		}(i, engine)
	}
	wg.Wait()

	var usable []domain.RecognitionResult
	for _, result := range results {
		if result.Usable() {
			usable = append(usable, result)
			continue
		}
		if result.EngineID != "" {
			notes = append(notes, fmt.Sprintf("engine %s produced no usable text", result.EngineID))
		}
	}

	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].Confidence > usable[j].Confidence
	})
	return usable, notes
}

// runEngine bounds one engine call by its timeout and converts any failure,
// panic included, into a zero-confidence result that the filter drops.
func (o *EngineOrchestrator) runEngine(ctx context.Context, engine ports.TextRecognizer, input domain.DocumentInput) (result domain.RecognitionResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("ocr_engine_panic", "engine", engine.ID(), "panic", r)
			result = domain.RecognitionResult{EngineID: engine.ID()}
		}
	}()

	engineCtx, cancel := context.WithTimeout(ctx, o.timeoutFor(engine.ID()))
	defer cancel()

	result, err := engine.Recognize(engineCtx, input)
	if err != nil {
		slog.Warn("ocr_engine_failed", "engine", engine.ID(), "error", err)
		if o.observer != nil {
			o.observer.EngineFailed(engine.ID())
		}
		return domain.RecognitionResult{EngineID: engine.ID()}
	}
	if result.EngineID == "" {
		result.EngineID = engine.ID()
	}
	return result
}

func (o *EngineOrchestrator) timeoutFor(engineID string) time.Duration {
	if timeout, ok := o.timeouts[engineID]; ok && timeout > 0 {
		return timeout
	}
	return defaultEngineTimeout
}
