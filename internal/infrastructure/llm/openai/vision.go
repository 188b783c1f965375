package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirillkom/docmind/internal/core/domain"
)

const visionEngineID = "vision-llm"

// VisionEngine exposes the vision-language model as an OCR engine.
type VisionEngine struct {
	client  *Client
	limiter *rate.Limiter
}

func NewVisionEngine(client *Client, limiter *rate.Limiter) *VisionEngine {
	return &VisionEngine{client: client, limiter: limiter}
}

func (e *VisionEngine) ID() string { return visionEngineID }

func (e *VisionEngine) Recognize(ctx context.Context, input domain.DocumentInput) (domain.RecognitionResult, error) {
	if len(input.Content) == 0 {
		return domain.RecognitionResult{}, fmt.Errorf("vision recognize: empty document content")
	}
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return domain.RecognitionResult{}, err
		}
	}

	start := time.Now()
	raw, err := e.client.chat(ctx, "vision", e.client.visionModel, []chatMessage{
		{Role: "user", Content: []map[string]any{
			{"type": "text", "text": buildVisionPrompt()},
			{"type": "image_url", "image_url": map[string]string{"url": dataURL(input)}},
		}},
	}, true)
	if err != nil {
		return domain.RecognitionResult{}, err
	}

	var parsed struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	if err := decodeJSONObject(sanitizeModelOutput(raw), &parsed); err != nil {
		return domain.RecognitionResult{}, fmt.Errorf("parse vision json: %w", err)
	}

	return domain.RecognitionResult{
		Text:       parsed.Text,
		Confidence: parsed.Confidence,
		EngineID:   visionEngineID,
		LatencyMS:  time.Since(start).Milliseconds(),
	}, nil
}

func dataURL(input domain.DocumentInput) string {
	mime := "image/png"
	if input.IsPDF() {
		mime = "application/pdf"
	} else if len(input.Content) >= 2 && input.Content[0] == 0xFF && input.Content[1] == 0xD8 {
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(input.Content))
}
