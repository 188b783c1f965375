package huggingface

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kirillkom/docmind/internal/core/domain"
	"github.com/kirillkom/docmind/internal/infrastructure/resilience"
)

func TestClassifierParsesZeroShotResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/zero-shot" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"labels":["insurance","financial","personal"],"scores":[0.87,0.06,0.03]}`))
	}))
	defer server.Close()

	classifier := NewClassifier(New(server.URL, "token", nil), "zero-shot")
	vote, alternatives, err := classifier.Classify(context.Background(), "certificat d'assurance")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if vote.Category != domain.CategoryInsurance || vote.Confidence != 0.87 {
		t.Fatalf("unexpected vote: %+v", vote)
	}
	if vote.Source != domain.VoteSourceModel {
		t.Fatalf("expected model source, got %s", vote.Source)
	}
	if len(alternatives) != 2 || alternatives[0].Category != domain.CategoryFinancial {
		t.Fatalf("unexpected alternatives: %+v", alternatives)
	}
}

func TestClassifierMapsUnknownLabelToOther(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"labels":["weird-label"],"scores":[0.9]}`))
	}))
	defer server.Close()

	classifier := NewClassifier(New(server.URL, "", nil), "zero-shot")
	vote, _, err := classifier.Classify(context.Background(), "text")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if vote.Category != domain.CategoryOther {
		t.Fatalf("expected other, got %s", vote.Category)
	}
}

func TestModelLoadingGetsExtraRetryCycle(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model zero-shot is currently loading","estimated_time":0.01}`))
			return
		}
		_, _ = w.Write([]byte(`{"labels":["legal"],"scores":[0.8]}`))
	}))
	defer server.Close()

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    1,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     2,
		WarmupDefaultWait:   time.Millisecond,
		WarmupMaxWait:       5 * time.Millisecond,
		BreakerEnabled:      false,
	})

	classifier := NewClassifier(New(server.URL, "", executor), "zero-shot")
	vote, _, err := classifier.Classify(context.Background(), "contract")
	if err != nil {
		t.Fatalf("expected warm-up recovery, got %v", err)
	}
	if vote.Category != domain.CategoryLegal {
		t.Fatalf("unexpected vote: %+v", vote)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", calls)
	}
}

func TestModelLoadingErrorIsTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model x is currently loading","estimated_time":12.5}`))
	}))
	defer server.Close()

	classifier := NewClassifier(New(server.URL, "", nil), "zero-shot")
	_, _, err := classifier.Classify(context.Background(), "text")
	if !errors.Is(err, domain.ErrModelWarmingUp) {
		t.Fatalf("expected warm-up error, got %v", err)
	}
	var loading *ModelLoadingError
	if !errors.As(err, &loading) || loading.WarmupWait() != 12500*time.Millisecond {
		t.Fatalf("expected estimated wait on error, got %v", err)
	}
}

func TestExtractorMapsEntityGroups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"entity_group":"PER","word":"Maria Petrova","score":0.98},
			{"entity_group":"ORG","word":"CSS Assurance","score":0.95},
			{"entity_group":"PER","word":"Maria Petrova","score":0.91},
			{"entity_group":"MISC","word":"noise","score":0.9}
		]`))
	}))
	defer server.Close()

	extractor := NewExtractor(New(server.URL, "", nil), "ner")
	entities, dates, err := extractor.Extract(context.Background(), "text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if dates != nil {
		t.Fatalf("remote extractor must not emit dates, got %v", dates)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 deduplicated entities, got %+v", entities)
	}
	if entities[0].Kind != domain.EntityPerson || entities[1].Kind != domain.EntityOrganization {
		t.Fatalf("unexpected kinds: %+v", entities)
	}
}
