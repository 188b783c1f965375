// Package pdftext reads the embedded text layer of a PDF. It is the cheapest
// engine in the fan-out: exact when a text layer exists, useless for scans.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/docmind/internal/core/domain"
)

const (
	engineID = "pdftext"

	// An embedded text layer is authoritative when present.
	textLayerConfidence = 0.99
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) ID() string { return engineID }

func (e *Engine) Recognize(ctx context.Context, input domain.DocumentInput) (domain.RecognitionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecognitionResult{}, err
	}
	if !input.IsPDF() {
		return domain.RecognitionResult{EngineID: engineID}, nil
	}
	if len(input.Content) == 0 {
		return domain.RecognitionResult{}, fmt.Errorf("pdftext recognize: empty document content")
	}

	start := time.Now()
	reader, err := pdf.NewReader(bytes.NewReader(input.Content), int64(len(input.Content)))
	if err != nil {
		return domain.RecognitionResult{}, fmt.Errorf("open pdf: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return domain.RecognitionResult{}, fmt.Errorf("read pdf text layer: %w", err)
	}
	raw, err := io.ReadAll(textReader)
	if err != nil {
		return domain.RecognitionResult{}, fmt.Errorf("read pdf text layer: %w", err)
	}

	text := string(raw)
	confidence := textLayerConfidence
	if strings.TrimSpace(text) == "" {
		// Scanned PDF without a text layer: report nothing rather than guess.
		confidence = 0
	}

	return domain.RecognitionResult{
		Text:       text,
		Confidence: confidence,
		EngineID:   engineID,
		LatencyMS:  time.Since(start).Milliseconds(),
	}, nil
}
