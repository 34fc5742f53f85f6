// Package main is the entry point for shimd: the SAI control-plane
// shim process. It wires a validator.Core to a Redis-backed request
// pipeline and serves the diagnostic HTTP surface (SPEC_FULL.md §4.8)
// alongside it. Driver callers (e.g. a future SAI adapter binding) reach
// the validator through internal/sai/abi, not through this binary
// directly; shimd's own job is process lifecycle, not request dispatch.
//
// Import Path (ADR-0016): github.com/sonic-net/sai-redis-go/cmd/shimd
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sonic-net/sai-redis-go/internal/api"
	"github.com/sonic-net/sai-redis-go/internal/config"
	"github.com/sonic-net/sai-redis-go/internal/pkg/logger"
	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
	"github.com/sonic-net/sai-redis-go/internal/sai/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting shimd",
		zap.Int("port", cfg.Server.Port),
		zap.String("redis_addr", cfg.Redis.Addr),
		zap.String("switch_type", cfg.Pipeline.SwitchType),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisClient.Close()

	transport := pipeline.NewRedisTransport(redisClient, cfg.Redis.OutboundList, cfg.Redis.ResponseList)
	ring := pipeline.NewRingBuffer(2000)
	tracer := pipeline.NewTracer(ring, cfg.Pipeline.RecordTrace)

	store := graph.NewStore()
	core := validator.NewCore(metadata.Registry, store, transport, logger.L(),
		validator.WithTracer(tracer),
		validator.WithResponseTimeout(cfg.Pipeline.ResponseTimeout),
	)

	router := api.NewRouter(cfg, core, tracer, ring, metadata.Registry)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { //nolint:naked-goroutine // main server goroutine is exempt
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("shimd started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shimd stopped gracefully")
	return nil
}
