// Package docai adapts Google Document AI as the classical layout-aware OCR
// engine.
package docai

import (
	"context"
	"fmt"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/kirillkom/docmind/internal/core/domain"
)

const engineID = "docai"

type Config struct {
	ProjectID       string
	Location        string
	ProcessorID     string
	CredentialsFile string
}

type Engine struct {
	client        *documentai.DocumentProcessorClient
	processorName string
	limiter       *rate.Limiter
}

// New creates the Document AI client once; the engine is reused across
// invocations and carries no per-document state.
func New(ctx context.Context, cfg Config, limiter *rate.Limiter) (*Engine, error) {
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)

	opts := []option.ClientOption{option.WithEndpoint(endpoint)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create document ai client: %w", err)
	}

	return &Engine{
		client: client,
		processorName: fmt.Sprintf(
			"projects/%s/locations/%s/processors/%s",
			cfg.ProjectID, cfg.Location, cfg.ProcessorID,
		),
		limiter: limiter,
	}, nil
}

func (e *Engine) ID() string { return engineID }

func (e *Engine) Close() error { return e.client.Close() }

func (e *Engine) Recognize(ctx context.Context, input domain.DocumentInput) (domain.RecognitionResult, error) {
	if len(input.Content) == 0 {
		return domain.RecognitionResult{}, fmt.Errorf("docai recognize: empty document content")
	}
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return domain.RecognitionResult{}, err
		}
	}

	req := &documentaipb.ProcessRequest{
		Name: e.processorName,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  input.Content,
				MimeType: mimeTypeFor(input),
			},
		},
		SkipHumanReview: true,
	}

	start := time.Now()
	resp, err := e.client.ProcessDocument(ctx, req)
	if err != nil {
		return domain.RecognitionResult{}, fmt.Errorf("document ai process: %w", err)
	}

	doc := resp.GetDocument()
	return domain.RecognitionResult{
		Text:       doc.GetText(),
		Confidence: documentConfidence(doc),
		EngineID:   engineID,
		LatencyMS:  time.Since(start).Milliseconds(),
	}, nil
}

func mimeTypeFor(input domain.DocumentInput) string {
	if input.IsPDF() {
		return "application/pdf"
	}
	if len(input.Content) >= 2 && input.Content[0] == 0xFF && input.Content[1] == 0xD8 {
		return "image/jpeg"
	}
	return "image/png"
}

// documentConfidence averages page layout confidences; Document AI reports no
// document-level score.
func documentConfidence(doc *documentaipb.Document) float64 {
	pages := doc.GetPages()
	if len(pages) == 0 {
		if doc.GetText() == "" {
			return 0
		}
		return 0.9
	}

	var sum float64
	counted := 0
	for _, page := range pages {
		if layout := page.GetLayout(); layout != nil && layout.GetConfidence() > 0 {
			sum += float64(layout.GetConfidence())
			counted++
		}
	}
	if counted == 0 {
		if doc.GetText() == "" {
			return 0
		}
		return 0.9
	}
	return sum / float64(counted)
}
