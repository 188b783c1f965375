package huggingface

import (
	"context"

	"github.com/kirillkom/docmind/internal/core/domain"
)

// Extractor runs a hosted token-classification (NER) model. It emits no date
// mentions; the pipeline fills dates from the local date extractor, which owns
// the locale-specific normalization either way.
type Extractor struct {
	client *Client
	model  string
}

func NewExtractor(client *Client, model string) *Extractor {
	return &Extractor{client: client, model: model}
}

var entityGroupKinds = map[string]domain.EntityKind{
	"PER": domain.EntityPerson,
	"ORG": domain.EntityOrganization,
	"LOC": domain.EntityLocation,
}

func (e *Extractor) Extract(ctx context.Context, text string) ([]domain.Entity, []domain.DateMention, error) {
	request := map[string]any{
		"inputs": truncateInput(text),
		"parameters": map[string]any{
			"aggregation_strategy": "simple",
		},
	}

	var response []struct {
		EntityGroup string  `json:"entity_group"`
		Word        string  `json:"word"`
		Score       float64 `json:"score"`
	}
	if err := e.client.infer(ctx, "extract", e.model, request, &response); err != nil {
		return nil, nil, err
	}

	type key struct {
		kind domain.EntityKind
		text string
	}
	seen := make(map[key]struct{}, len(response))
	var entities []domain.Entity
	for _, item := range response {
		kind, ok := entityGroupKinds[item.EntityGroup]
		if !ok || item.Word == "" {
			continue
		}
		k := key{kind: kind, text: item.Word}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		entities = append(entities, domain.Entity{
			Text:       item.Word,
			Kind:       kind,
			Confidence: item.Score,
		})
	}
	return entities, nil, nil
}
