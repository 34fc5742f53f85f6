package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("REDIS_ADDR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Server defaults
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if len(cfg.Server.AllowedOrigins) != 0 {
		t.Errorf("Server.AllowedOrigins = %v, want empty", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.UnsafeAllowAllOrigins {
		t.Errorf("Server.UnsafeAllowAllOrigins = %v, want false", cfg.Server.UnsafeAllowAllOrigins)
	}

	// Redis defaults
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want localhost:6379", cfg.Redis.Addr)
	}
	if cfg.Redis.OutboundList != "sai:outbound" {
		t.Errorf("Redis.OutboundList = %q, want sai:outbound", cfg.Redis.OutboundList)
	}
	if cfg.Redis.ResponseList != "sai:response" {
		t.Errorf("Redis.ResponseList = %q, want sai:response", cfg.Redis.ResponseList)
	}

	// Log defaults
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}

	// Pipeline defaults
	if cfg.Pipeline.RecordTrace {
		t.Errorf("Pipeline.RecordTrace = %v, want false", cfg.Pipeline.RecordTrace)
	}
	if cfg.Pipeline.ResponseTimeout != 5*time.Second {
		t.Errorf("Pipeline.ResponseTimeout = %v, want 5s", cfg.Pipeline.ResponseTimeout)
	}
	if cfg.Pipeline.SwitchType != "virtual" {
		t.Errorf("Pipeline.SwitchType = %q, want virtual", cfg.Pipeline.SwitchType)
	}

	// Worker pool defaults
	if cfg.Worker.ExecutorPoolSize != 50 {
		t.Errorf("Worker.ExecutorPoolSize = %d, want 50", cfg.Worker.ExecutorPoolSize)
	}

	// Security: auto-generated since no env var was set
	if cfg.Security.AdminToken == "" {
		t.Errorf("Security.AdminToken should be auto-generated, got empty")
	}
}

func TestLoad_RedisAddrFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6380")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Fatalf("Redis.Addr = %q, want redis.internal:6380", cfg.Redis.Addr)
	}
}

func TestLoad_ServerCORSFlagsFromEnv(t *testing.T) {
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://example.com")
	t.Setenv("SERVER_UNSAFE_ALLOW_ALL_ORIGINS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := len(cfg.Server.AllowedOrigins); got != 1 {
		t.Fatalf("len(Server.AllowedOrigins) = %d, want 1", got)
	}
	if got := cfg.Server.AllowedOrigins[0]; got != "https://example.com" {
		t.Fatalf("Server.AllowedOrigins[0] = %q, want %q", got, "https://example.com")
	}
	if !cfg.Server.UnsafeAllowAllOrigins {
		t.Fatalf("Server.UnsafeAllowAllOrigins = %v, want true", cfg.Server.UnsafeAllowAllOrigins)
	}
}

func TestValidate_RejectsEqualLists(t *testing.T) {
	cfg := &Config{
		Redis: RedisConfig{
			OutboundList: "same",
			ResponseList: "same",
		},
		Pipeline: PipelineConfig{SwitchType: "virtual"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() expected error for equal outbound/response lists, got nil")
	}
}

func TestValidate_RejectsUnknownSwitchType(t *testing.T) {
	cfg := &Config{
		Redis: RedisConfig{
			OutboundList: "out",
			ResponseList: "resp",
		},
		Pipeline: PipelineConfig{SwitchType: "bogus"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() expected error for unknown switch_type, got nil")
	}
}
