package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/pkg/config"
	"github.com/FACorreiaa/loci-citymap/internal/pkg/logger"
	"github.com/FACorreiaa/loci-citymap/internal/server"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	if err := logger.Init(logger.ParseLevel(os.Getenv("LOG_LEVEL")), zap.String("version", version)); err != nil {
		return err
	}
	defer func() { _ = logger.Log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := server.InitObservability(cfg.Observability, version, logger.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(ctx, cfg, logger.Log)
	if err != nil {
		return err
	}
	defer srv.Close()

	router, handler, err := server.SetupRouter(srv.Dependencies(), logger.Log)
	if err != nil {
		return err
	}
	if err := server.SetupAssets(router); err != nil {
		logger.Log.Error("Failed to setup assets", zap.Error(err))
		return err
	}
	srv.SetRouter(handler)

	servers := []*http.Server{srv.HTTPServer()}
	if cfg.Observability.PprofAddr != "" {
		servers = append(servers, server.PprofServer(cfg.Observability.PprofAddr))
	}

	if err := server.Serve(ctx, logger.Log, servers...); err != nil {
		logger.Log.Error("Server error", zap.Error(err))
		return err
	}

	logger.Log.Info("Graceful shutdown complete")
	return nil
}
