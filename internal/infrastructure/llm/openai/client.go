// Package openai is the client for an OpenAI-compatible completion service.
// One shared client backs three capabilities: the vision-language OCR engine,
// the text correction stage and the cloud Q&A generator.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docmind/internal/infrastructure/resilience"
)

type Client struct {
	baseURL     string
	apiKey      string
	model       string
	visionModel string
	httpClient  *http.Client
	executor    *resilience.Executor
}

func New(baseURL, apiKey, model, visionModel string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		visionModel: visionModel,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		executor:    executor,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

func (c *Client) chat(ctx context.Context, operation, model string, messages []chatMessage, wantJSON bool) (string, error) {
	request := map[string]any{
		"model":       model,
		"temperature": 0,
		"messages":    messages,
	}
	if wantJSON {
		request["response_format"] = map[string]any{"type": "json_object"}
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/chat/completions", request, &response, operation)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "openai."+operation, call, classifyOpenAIError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("openai %s: no choices in response", operation)
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// extractJSONObject tolerates prose around the JSON object some models emit.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func decodeJSONObject(raw string, out any) error {
	return json.Unmarshal([]byte(extractJSONObject(raw)), out)
}
