// Package main is the entry point for vssyncd: the virtual-switch
// executor process of spec.md §4.6. It BLPOPs requests shimd's
// validator pushed onto the outbound Redis list, answers them out of an
// in-memory Simulator, and RPUSHes the response back — standing in for
// a real ASIC driver when PIPELINE_SWITCH_TYPE=virtual.
//
// Import Path (ADR-0016): github.com/sonic-net/sai-redis-go/cmd/vssyncd
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sonic-net/sai-redis-go/internal/config"
	"github.com/sonic-net/sai-redis-go/internal/pkg/logger"
	"github.com/sonic-net/sai-redis-go/internal/pkg/worker"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
	"github.com/sonic-net/sai-redis-go/internal/sai/vswitch"
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

	if cfg.Pipeline.SwitchType != "virtual" {
		return fmt.Errorf("vssyncd only implements pipeline.switch_type=virtual, got %q", cfg.Pipeline.SwitchType)
	}

	logger.Info("starting vssyncd",
		zap.String("redis_addr", cfg.Redis.Addr),
		zap.Int("executor_pool_size", cfg.Worker.ExecutorPoolSize),
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

	consumer := pipeline.NewRedisRequestConsumer(redisClient, cfg.Redis.OutboundList, cfg.Redis.ResponseList)
	sim := vswitch.NewSimulator(metadata.Registry, logger.L())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		GeneralPoolSize:  1,
		ExecutorPoolSize: cfg.Worker.ExecutorPoolSize,
	})
	if err != nil {
		return fmt.Errorf("start worker pools: %w", err)
	}
	defer pools.Shutdown()

	exec := vswitch.NewExecutor(consumer, sim, pools.Executor, logger.L())

	runErrCh := make(chan error, 1)
	if err := pools.General.Submit(ctx, func(ctx context.Context) {
		runErrCh <- exec.Run(ctx)
	}); err != nil {
		return fmt.Errorf("submit executor run loop: %w", err)
	}

	logger.Info("vssyncd started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
		cancel()
	case err := <-runErrCh:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("executor run loop: %w", err)
		}
	}

	logger.Info("vssyncd stopped gracefully")
	return nil
}
