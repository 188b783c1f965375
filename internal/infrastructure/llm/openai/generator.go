package openai

import (
	"context"

	"github.com/kirillkom/docmind/internal/core/domain"
)

// Generator is the cloud Q&A capability.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateAnswer(ctx context.Context, question string, result *domain.ProcessingResult) (string, error) {
	return g.client.chat(ctx, "answer", g.client.model, []chatMessage{
		{Role: "user", Content: buildAnswerPrompt(question, result)},
	}, false)
}
