// Package bootstrap wires the pipeline together for the api and worker
// binaries. Cloud engines are optional: missing credentials shrink the
// deployment to its local path instead of failing startup.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/kirillkom/docmind/internal/classify/huggingface"
	"github.com/kirillkom/docmind/internal/classify/rules"
	"github.com/kirillkom/docmind/internal/config"
	"github.com/kirillkom/docmind/internal/core/ports"
	"github.com/kirillkom/docmind/internal/core/usecase"
	"github.com/kirillkom/docmind/internal/extract/local"
	"github.com/kirillkom/docmind/internal/infrastructure/fetch"
	"github.com/kirillkom/docmind/internal/infrastructure/llm/openai"
	"github.com/kirillkom/docmind/internal/infrastructure/ocr/docai"
	"github.com/kirillkom/docmind/internal/infrastructure/ocr/pdftext"
	natsqueue "github.com/kirillkom/docmind/internal/infrastructure/queue/nats"
	"github.com/kirillkom/docmind/internal/infrastructure/resilience"
	"github.com/kirillkom/docmind/internal/lang"
	"github.com/kirillkom/docmind/internal/metadata"
	"github.com/kirillkom/docmind/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.PipelineMetrics

	Queue     *natsqueue.Queue
	ProcessUC ports.DocumentProcessor
	AnswerUC  ports.QuestionAnswerer

	closeFn func()
}

type Options struct {
	// WithQueue connects NATS. The api publishes jobs; the worker consumes.
	WithQueue bool
	Service   string
}

func New(ctx context.Context, cfg config.Config, options Options) (*App, error) {
	service := options.Service
	if service == "" {
		service = "docmind"
	}

	pipelineMetrics := metrics.NewPipelineMetrics(service)
	executor := resilience.NewExecutor(resilience.DefaultConfig())

	engines, closeEngines, err := buildEngines(ctx, cfg, executor)
	if err != nil {
		return nil, err
	}

	var corrector ports.TextCorrector
	var answerGenerator ports.AnswerGenerator
	if cfg.OpenAIAPIKey != "" {
		openaiClient := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIVisionModel, executor)
		corrector = openai.NewCorrector(openaiClient)
		answerGenerator = openai.NewGenerator(openaiClient)
	}

	var categoryModel ports.CategoryModel
	var remoteExtractor ports.EntityExtractor
	if cfg.HFToken != "" {
		hfClient := huggingface.New(cfg.HFInferenceURL, cfg.HFToken, executor)
		categoryModel = huggingface.NewClassifier(hfClient, cfg.HFZeroShotModel)
		remoteExtractor = huggingface.NewExtractor(hfClient, cfg.HFNERModel)
	}

	localExtractor := local.NewExtractor()
	orchestrator := usecase.NewEngineOrchestrator(
		engines,
		fetch.NewHTTPFetcher(cfg.FetchTimeout),
		cfg.EngineTimeouts,
		pipelineMetrics,
	)

	processUC := usecase.NewProcessDocumentUseCase(
		orchestrator,
		corrector,
		rules.NewClassifier(),
		categoryModel,
		remoteExtractor,
		localExtractor,
		localExtractor,
		lang.NewDetector(),
		metadata.NewGenerator(),
		pipelineMetrics,
		cfg.PreferLocal,
	)
	answerUC := usecase.NewAnswerQuestionUseCase(answerGenerator)

	var queue *natsqueue.Queue
	if options.WithQueue {
		queue, err = natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
			ResilienceExecutor: executor,
		})
		if err != nil {
			closeEngines()
			return nil, fmt.Errorf("init message queue: %w", err)
		}
	}

	return &App{
		Config:    cfg,
		Metrics:   pipelineMetrics,
		Queue:     queue,
		ProcessUC: processUC,
		AnswerUC:  answerUC,
		closeFn: func() {
			if queue != nil {
				queue.Close()
			}
			closeEngines()
		},
	}, nil
}

// buildEngines assembles the OCR fan-out. The PDF text-layer engine is always
// present; the cloud engines join when configured.
func buildEngines(ctx context.Context, cfg config.Config, executor *resilience.Executor) ([]ports.TextRecognizer, func(), error) {
	engines := []ports.TextRecognizer{pdftext.New()}
	closeFns := []func(){}

	if cfg.DocAIProjectID != "" && cfg.DocAIProcessorID != "" {
		engine, err := docai.New(ctx, docai.Config{
			ProjectID:       cfg.DocAIProjectID,
			Location:        cfg.DocAILocation,
			ProcessorID:     cfg.DocAIProcessorID,
			CredentialsFile: cfg.DocAICredentialsFile,
		}, rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RequestsBurst))
		if err != nil {
			return nil, nil, fmt.Errorf("init document ai: %w", err)
		}
		engines = append(engines, engine)
		closeFns = append(closeFns, func() {
			if err := engine.Close(); err != nil {
				slog.Warn("close_document_ai", "error", err)
			}
		})
	}

	if cfg.OpenAIAPIKey != "" {
		visionClient := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIVisionModel, executor)
		visionLimiter := rate.NewLimiter(rate.Limit(float64(cfg.VisionPerMinute)/60.0), 1)
		engines = append(engines, openai.NewVisionEngine(visionClient, visionLimiter))
	}

	closeAll := func() {
		for _, fn := range closeFns {
			fn()
		}
	}
	return engines, closeAll, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
