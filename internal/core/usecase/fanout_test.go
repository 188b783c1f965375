package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/docmind/internal/core/domain"
	"github.com/kirillkom/docmind/internal/core/ports"
)

func TestExtractTextRanksUsableResultsBestFirst(t *testing.T) {
	orchestrator := NewEngineOrchestrator(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "weak", result: domain.RecognitionResult{Text: "weak text", Confidence: 0.5}},
			&fakeRecognizer{id: "strong", result: domain.RecognitionResult{Text: "strong text", Confidence: 0.9}},
			&fakeRecognizer{id: "noise", result: domain.RecognitionResult{Text: "noise", Confidence: 0.05}},
		},
		nil, nil, nil,
	)

	results, notes := orchestrator.ExtractText(context.Background(), domain.DocumentInput{Content: []byte("doc")})

	if len(results) != 2 {
		t.Fatalf("expected 2 usable results, got %d", len(results))
	}
	if results[0].EngineID != "strong" || results[1].EngineID != "weak" {
		t.Fatalf("unexpected ranking: %q then %q", results[0].EngineID, results[1].EngineID)
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "noise") {
		t.Fatalf("expected a note about the filtered engine, got %v", notes)
	}
}

func TestExtractTextContainsEnginePanicsAndErrors(t *testing.T) {
	observer := &fakeObserver{}
	orchestrator := NewEngineOrchestrator(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "panicky", panics: true},
			&fakeRecognizer{id: "broken", err: errors.New("engine offline")},
			&fakeRecognizer{id: "healthy", result: domain.RecognitionResult{Text: "готово", Confidence: 0.8}},
		},
		nil, nil, observer,
	)

	results, _ := orchestrator.ExtractText(context.Background(), domain.DocumentInput{Content: []byte("doc")})

	if len(results) != 1 || results[0].EngineID != "healthy" {
		t.Fatalf("expected only the healthy engine to survive, got %+v", results)
	}
	if len(observer.failed) != 1 || observer.failed[0] != "broken" {
		t.Fatalf("expected failure signal for the broken engine, got %v", observer.failed)
	}
}

func TestExtractTextFetchesURLOnce(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("fetched bytes")}
	orchestrator := NewEngineOrchestrator(
		[]ports.TextRecognizer{
			&fakeRecognizer{id: "a", result: domain.RecognitionResult{Text: "a", Confidence: 0.6}},
			&fakeRecognizer{id: "b", result: domain.RecognitionResult{Text: "b", Confidence: 0.7}},
		},
		fetcher, nil, nil,
	)

	results, _ := orchestrator.ExtractText(context.Background(), domain.DocumentInput{URL: "https://example.test/doc.pdf"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected exactly one fetch, got %d", fetcher.calls)
	}
}

func TestExtractTextReportsFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	orchestrator := NewEngineOrchestrator(
		[]ports.TextRecognizer{&fakeRecognizer{id: "a"}},
		fetcher, nil, nil,
	)

	results, notes := orchestrator.ExtractText(context.Background(), domain.DocumentInput{URL: "https://example.test/doc.pdf"})

	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "fetch failed") {
		t.Fatalf("expected a fetch failure note, got %v", notes)
	}
}
