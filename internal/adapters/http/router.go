// Package httpadapter exposes the pipeline over a small JSON API.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kirillkom/docmind/internal/core/domain"
	"github.com/kirillkom/docmind/internal/core/ports"
	jobqueue "github.com/kirillkom/docmind/internal/infrastructure/queue/nats"
)

const maxUploadBytes = 32 << 20 // 32 MiB

var errMissingDocument = errors.New("document url is required")

// JobEnqueuer publishes async processing jobs. Nil means the deployment runs
// without a queue and only serves synchronous requests.
type JobEnqueuer interface {
	PublishJob(ctx context.Context, job jobqueue.ProcessJob) error
}

type Router struct {
	processor ports.DocumentProcessor
	answerer  ports.QuestionAnswerer
	jobs      JobEnqueuer
	limiter   *rate.Limiter
}

func NewRouter(
	processor ports.DocumentProcessor,
	answerer ports.QuestionAnswerer,
	jobs JobEnqueuer,
	limiter *rate.Limiter,
) *Router {
	return &Router{
		processor: processor,
		answerer:  answerer,
		jobs:      jobs,
		limiter:   limiter,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/process", rt.processDocument)
	mux.HandleFunc("/v1/jobs", rt.enqueueJob)
	mux.HandleFunc("/v1/answer", rt.answerQuestion)

	handler := http.Handler(mux)
	handler = throttleMiddleware(rt.limiter, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// processDocument accepts either a multipart upload (field "file", optional
// field "hint") or a JSON body {"url": ..., "hint": ...}. Processing never
// fails; degraded outcomes are reported inside the result.
func (rt *Router) processDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	input, err := parseProcessRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result := rt.processor.Process(r.Context(), input)
	writeJSON(w, http.StatusOK, result)
}

func parseProcessRequest(r *http.Request) (domain.DocumentInput, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return domain.DocumentInput{}, domain.WrapError(domain.ErrInvalidInput, "parse upload", err)
		}
		defer file.Close()

		content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return domain.DocumentInput{}, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
		}
		return domain.DocumentInput{
			ID:      uuid.NewString(),
			Content: content,
			Hint:    parseHint(r.FormValue("hint")),
		}, nil
	}

	var req struct {
		ID   string `json:"id"`
		URL  string `json:"url"`
		Hint string `json:"hint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.DocumentInput{}, domain.WrapError(domain.ErrInvalidInput, "decode request", err)
	}
	if strings.TrimSpace(req.URL) == "" {
		return domain.DocumentInput{}, domain.WrapError(domain.ErrInvalidInput, "validate request", errMissingDocument)
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	return domain.DocumentInput{ID: id, URL: req.URL, Hint: parseHint(req.Hint)}, nil
}

// enqueueJob hands a URL-referenced document to the worker pool.
func (rt *Router) enqueueJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rt.jobs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "async processing is not configured"})
		return
	}

	var req struct {
		ID   string `json:"id"`
		URL  string `json:"url"`
		Hint string `json:"hint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	job := jobqueue.ProcessJob{ID: req.ID, URL: req.URL, Hint: parseHint(req.Hint)}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	if err := rt.jobs.PublishJob(r.Context(), job); err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

// answerQuestion answers a question against a previously returned result.
func (rt *Router) answerQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question string                   `json:"question"`
		Result   *domain.ProcessingResult `json:"result"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}
	if req.Result == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "result is required"})
		return
	}

	answer := rt.answerer.Answer(r.Context(), req.Question, req.Result)
	writeJSON(w, http.StatusOK, answer)
}

func parseHint(raw string) domain.DocumentHint {
	switch domain.DocumentHint(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.HintPDF:
		return domain.HintPDF
	case domain.HintImage:
		return domain.HintImage
	default:
		return domain.HintAuto
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
