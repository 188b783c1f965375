package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	httpadapter "github.com/kirillkom/docmind/internal/adapters/http"
	"github.com/kirillkom/docmind/internal/bootstrap"
	"github.com/kirillkom/docmind/internal/config"
	"github.com/kirillkom/docmind/internal/observability/logging"
	"github.com/kirillkom/docmind/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logging.Init("docmind-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{WithQueue: true, Service: "docmind-api"})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.RequestsBurst)
	router := httpadapter.NewRouter(app.ProcessUC, app.AnswerUC, app.Queue, limiter).Handler()

	httpMetrics := metrics.NewHTTPMetrics(app.Metrics, "docmind-api")
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	mux.Handle("/", httpMetrics.Middleware("docmind-api", router))

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
