// Package huggingface talks to a hosted NLP inference API. It provides the
// probabilistic model vote (zero-shot classification) and the remote entity
// extractor for the cloud path. Hosted models may answer 503 while loading;
// that is surfaced as a warm-up error so the resilience executor can grant an
// extra wait-and-retry cycle.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docmind/internal/infrastructure/resilience"
)

const maxInputRunes = 2000

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, token string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

func (c *Client) infer(ctx context.Context, operation, model string, payload any, out any) error {
	call := func(callCtx context.Context) error {
		return c.postModel(callCtx, model, payload, out, operation)
	}
	if c.executor != nil {
		return c.executor.Execute(ctx, "huggingface."+operation, call, classifyInferenceError)
	}
	return call(ctx)
}

func (c *Client) postModel(ctx context.Context, model string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return newInferenceError(operation, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func newInferenceError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	if resp.StatusCode == http.StatusServiceUnavailable {
		var loading struct {
			Error         string  `json:"error"`
			EstimatedTime float64 `json:"estimated_time"`
		}
		if err := json.Unmarshal(body, &loading); err == nil && strings.Contains(strings.ToLower(loading.Error), "loading") {
			return &ModelLoadingError{
				Operation:     operation,
				EstimatedWait: time.Duration(loading.EstimatedTime * float64(time.Second)),
			}
		}
	}

	return &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}

func truncateInput(text string) string {
	runes := []rune(text)
	if len(runes) <= maxInputRunes {
		return text
	}
	return string(runes[:maxInputRunes])
}
