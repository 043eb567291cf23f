package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	adapterhttp "todos/internal/adapter/http"
	"todos/internal/shared"
)

func main() {
	shared.LoadEnv()

	logger, err := shared.NewLokiLogger("todos", getEnv("LOKI_URL", "http://localhost:3100"))
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	telemetry, err := shared.InitTelemetry(shared.TelemetryConfig{
		ServiceName:    "todos",
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		Environment:    getEnv("APP_ENV", "development"),
		MetricsPort:    getEnv("METRICS_PORT", "9091"),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	})
	if err != nil {
		logger.Logger.Fatal("telemetry init failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := shared.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	server, err := adapterhttp.StartServer(logger, metrics)
	if err != nil {
		logger.Logger.Fatal("server init failed", zap.Error(err))
	}

	go func() {
		logger.Logger.Info("listening", zap.String("addr", server.HTTP.Addr))

		if err := server.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("shutdown error", zap.Error(err))
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("telemetry shutdown error", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
