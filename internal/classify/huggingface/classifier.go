package huggingface

import (
	"context"
	"fmt"

	"github.com/kirillkom/docmind/internal/core/domain"
)

const maxAlternatives = 3

// Classifier maps text onto the document taxonomy through a hosted zero-shot
// NLI model.
type Classifier struct {
	client *Client
	model  string
}

func NewClassifier(client *Client, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationVote, []domain.AlternativeCategory, error) {
	labels := make([]string, 0, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		labels = append(labels, string(cat))
	}

	request := map[string]any{
		"inputs": truncateInput(text),
		"parameters": map[string]any{
			"candidate_labels": labels,
		},
	}

	var response struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := c.client.infer(ctx, "classify", c.model, request, &response); err != nil {
		return domain.ClassificationVote{}, nil, err
	}
	if len(response.Labels) == 0 || len(response.Labels) != len(response.Scores) {
		return domain.ClassificationVote{}, nil, fmt.Errorf("classify: malformed inference response")
	}

	vote := domain.ClassificationVote{
		Category:   domain.ParseCategory(response.Labels[0]),
		Confidence: response.Scores[0],
		Reasoning:  fmt.Sprintf("zero-shot model %s top label %q", c.model, response.Labels[0]),
		Source:     domain.VoteSourceModel,
	}

	var alternatives []domain.AlternativeCategory
	for i := 1; i < len(response.Labels) && len(alternatives) < maxAlternatives; i++ {
		alternatives = append(alternatives, domain.AlternativeCategory{
			Category: domain.ParseCategory(response.Labels[i]),
			Score:    response.Scores[i],
		})
	}
	return vote, alternatives, nil
}
