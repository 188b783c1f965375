package openai

import (
	"context"
	"fmt"

	"github.com/kirillkom/docmind/internal/core/domain"
)

// Corrector implements the cloud text correction stage. Callers are expected
// to fall back to the best raw candidate when Correct returns an error.
type Corrector struct {
	client *Client
}

func NewCorrector(client *Client) *Corrector {
	return &Corrector{client: client}
}

func (c *Corrector) Correct(ctx context.Context, candidates []domain.RecognitionResult) (domain.FusedText, error) {
	if len(candidates) == 0 {
		return domain.FusedText{}, fmt.Errorf("correct: no candidates")
	}

	raw, err := c.client.chat(ctx, "correct", c.client.model, []chatMessage{
		{Role: "user", Content: buildCorrectionPrompt(candidates)},
	}, true)
	if err != nil {
		return domain.FusedText{}, err
	}

	payload := []byte(extractJSONObject(sanitizeModelOutput(raw)))
	if err := validateCorrectionPayload(payload); err != nil {
		return domain.FusedText{}, fmt.Errorf("correct: %w", err)
	}

	var parsed struct {
		CorrectedText string   `json:"corrected_text"`
		Confidence    float64  `json:"confidence"`
		Corrections   []string `json:"corrections"`
	}
	if err := decodeJSONObject(string(payload), &parsed); err != nil {
		return domain.FusedText{}, fmt.Errorf("parse correction json: %w", err)
	}

	return domain.FusedText{
		Text:        parsed.CorrectedText,
		Confidence:  parsed.Confidence,
		Source:      "correction",
		Corrections: parsed.Corrections,
	}, nil
}
