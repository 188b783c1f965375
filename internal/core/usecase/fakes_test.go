package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/kirillkom/docmind/internal/core/domain"
)

type fakeRecognizer struct {
	id     string
	result domain.RecognitionResult
	err    error
	panics bool
}

func (f *fakeRecognizer) ID() string { return f.id }

func (f *fakeRecognizer) Recognize(_ context.Context, _ domain.DocumentInput) (domain.RecognitionResult, error) {
	if f.panics {
		panic("recognizer exploded")
	}
	if f.err != nil {
		return domain.RecognitionResult{}, f.err
	}
	result := f.result
	result.EngineID = f.id
	return result, nil
}

type fakeFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeCorrector struct {
	fused  domain.FusedText
	err    error
	panics bool
	calls  int
}

func (f *fakeCorrector) Correct(_ context.Context, _ []domain.RecognitionResult) (domain.FusedText, error) {
	f.calls++
	if f.panics {
		panic("corrector exploded")
	}
	if f.err != nil {
		return domain.FusedText{}, f.err
	}
	return f.fused, nil
}

type fakeModel struct {
	vote         domain.ClassificationVote
	alternatives []domain.AlternativeCategory
	err          error
	calls        int
}

func (f *fakeModel) Classify(_ context.Context, _ string) (domain.ClassificationVote, []domain.AlternativeCategory, error) {
	f.calls++
	if f.err != nil {
		return domain.ClassificationVote{}, nil, f.err
	}
	return f.vote, f.alternatives, nil
}

type fakeExtractor struct {
	entities []domain.Entity
	dates    []domain.DateMention
	err      error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) ([]domain.Entity, []domain.DateMention, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.entities, f.dates, nil
}

type fakeAnswerGenerator struct {
	text   string
	err    error
	panics bool
}

func (f *fakeAnswerGenerator) GenerateAnswer(_ context.Context, _ string, _ *domain.ProcessingResult) (string, error) {
	if f.panics {
		panic("generator exploded")
	}
	return f.text, f.err
}

type fakeObserver struct {
	mu        sync.Mutex
	processed []domain.ProcessingMethod
	failed    []string
}

func (f *fakeObserver) DocumentProcessed(method domain.ProcessingMethod, _ domain.Category, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, method)
}

func (f *fakeObserver) EngineFailed(engineID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, engineID)
}
