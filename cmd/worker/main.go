package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/docmind/internal/bootstrap"
	"github.com/kirillkom/docmind/internal/config"
	"github.com/kirillkom/docmind/internal/core/domain"
	natsqueue "github.com/kirillkom/docmind/internal/infrastructure/queue/nats"
	"github.com/kirillkom/docmind/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logging.Init("docmind-worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{WithQueue: true, Service: "docmind-worker"})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: app.Metrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("worker metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	log.Printf("worker subscribed to %s", cfg.NATSSubject)
	err = app.Queue.SubscribeJobs(ctx, func(handlerCtx context.Context, job natsqueue.ProcessJob) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		app.Metrics.StartDocument()
		defer app.Metrics.FinishDocument()

		app.ProcessUC.Process(processCtx, domain.DocumentInput{
			ID:   job.ID,
			URL:  job.URL,
			Hint: job.Hint,
		})
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
