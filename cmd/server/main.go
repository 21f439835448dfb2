package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"verigate/internal/platform/config"
	"verigate/internal/platform/httpserver"
	"verigate/internal/platform/logger"
	platformmetrics "verigate/internal/platform/metrics"
	"verigate/internal/verification/credentials"
	"verigate/internal/verification/handler"
	"verigate/internal/verification/metrics"
	"verigate/internal/verification/orchestrator"
	"verigate/internal/verification/providers/stateboard"
	"verigate/internal/verification/resilience"
	"verigate/internal/verification/service"
	"verigate/pkg/attrs"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	if err := run(); err != nil {
		slog.Error("verigate stopped", attrs.Error, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv(boardCodes())
	log, closeLog := logger.New(cfg.Log)
	defer func() { _ = closeLog() }()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	exec := resilience.NewExecutor(&http.Client{}, cfg.Executor, log, resilience.WithMetrics(m))
	credOpts := []credentials.Option{credentials.WithMetrics(m)}
	if infra.redis != nil {
		credOpts = append(credOpts, credentials.WithMirror(credentials.NewRedisMirror(infra.redis.Client)))
	}
	creds := credentials.NewStore(log, credOpts...)

	registry := buildRegistry(cfg.Providers, creds, exec, log)
	orch, err := orchestrator.New(registry, orchestrator.WithLogger(log), orchestrator.WithMetrics(m))
	if err != nil {
		return fmt.Errorf("build orchestrator: %w", err)
	}
	log.Info("providers registered", "providers", orch.Providers(), "fail_fast_4xx", cfg.Executor.FailFastOnClientError)

	svc := service.New(orch, infra.store,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithDocuments(infra.documents(ctx, cfg.S3, log)),
		service.WithNotifier(newNotifier(cfg, exec, log)),
		service.WithUsageMeter(newUsageMeter(cfg.Razorpay, exec, log)),
		service.WithEventPublisher(infra.publisher()),
	)

	router := newRouter(handler.New(svc, log), reg, platformmetrics.NewHTTP(reg), infra.ready, log, cfg.Server.RequestTimeout)
	srv := httpserver.New(cfg.Server.Addr, router, cfg.Server.RequestTimeout)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting verigate", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func boardCodes() []string {
	boards := stateboard.Boards()
	codes := make([]string, len(boards))
	for i, b := range boards {
		codes[i] = b.Code
	}
	return codes
}
