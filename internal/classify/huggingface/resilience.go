package huggingface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/kirillkom/docmind/internal/core/domain"
	"github.com/kirillkom/docmind/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "inference status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("inference %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("inference %s status: %s: %s", e.Operation, e.Status, e.Body)
}

// ModelLoadingError means the hosted model is still warming up.
type ModelLoadingError struct {
	Operation     string
	EstimatedWait time.Duration
}

func (e *ModelLoadingError) Error() string {
	return fmt.Sprintf("inference %s: %v (estimated wait %s)", e.Operation, domain.ErrModelWarmingUp, e.EstimatedWait)
}

func (e *ModelLoadingError) Unwrap() error { return domain.ErrModelWarmingUp }

func (e *ModelLoadingError) WarmupWait() time.Duration { return e.EstimatedWait }

func classifyInferenceError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if errors.Is(err, domain.ErrModelWarmingUp) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: false, WarmingUp: true}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		default:
			return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
