// Package config provides configuration management for the SAI Redis shim.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (ADR-0018: standard names like REDIS_ADDR, SERVER_PORT)
// 3. Default values
//
// Import Path (ADR-0016): github.com/sonic-net/sai-redis-go/internal/config
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	VSwitch  VSwitchConfig  `mapstructure:"vswitch"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Security SecurityConfig `mapstructure:"security"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// ServerConfig contains the diagnostic HTTP surface's settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// AllowedOrigins is the CORS allow-list; empty defaults to loopback
	// origins only, since this surface is meant for an operator sidecar,
	// not a public API.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// UnsafeAllowAllOrigins disables the CORS allow-list entirely.
	UnsafeAllowAllOrigins bool `mapstructure:"unsafe_allow_all_origins"`
}

// PipelineConfig contains the environment controls of spec.md §6: the
// trace-recording toggle, the synchronous response-wait bound, and which
// switch implementation the executor talks to.
type PipelineConfig struct {
	// RecordTrace is the initial state of the trace recorder (spec.md §6);
	// toggled at runtime via the diagnostic surface is a possible future
	// extension but not required by spec.md.
	RecordTrace bool `mapstructure:"record_trace"`
	// ResponseTimeout bounds a synchronous get/get_stats/clear_stats call
	// (spec.md §4.5, §7); overrides validator.DefaultResponseTimeout.
	ResponseTimeout time.Duration `mapstructure:"response_timeout"`
	// SwitchType selects which executor cmd/vssyncd runs: "virtual" wires
	// internal/sai/vswitch.Simulator, "asic" is reserved for a real driver
	// binding not built by this module (spec.md §1's non-goal: "does not
	// ship a real ASIC driver").
	SwitchType string `mapstructure:"switch_type"`
}

// RedisConfig contains the connection settings for the request-pipeline
// transport (spec.md §4.5/§6: an RPUSH/BLPOP list pair plus per-key
// HSET/HGETALL field hashes).
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// OutboundList is the list the validator RPUSHes requests onto; the
	// executor BLPOPs it. ResponseList is the reverse direction.
	OutboundList string `mapstructure:"outbound_list"`
	ResponseList string `mapstructure:"response_list"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// VSwitchConfig contains settings for the in-process virtual-switch
// executor fixture (spec.md §4.6), used by cmd/vssyncd and by tests that
// want a real Redis round trip instead of a fake transport.
type VSwitchConfig struct {
	// ResponseDelay is an optional artificial delay before the executor
	// answers a get/get_stats/clear_stats, useful for exercising
	// waitForResponse's timeout path.
	ResponseDelay time.Duration `mapstructure:"response_delay"`
}

// SecurityConfig contains security-related settings for the diagnostic
// HTTP surface's admin endpoints (unit-test mode toggle, escape-hatch
// arming).
// ADR-0025: Auto-generate secrets on first boot if missing.
type SecurityConfig struct {
	AdminToken string `mapstructure:"admin_token"`
}

// WorkerConfig contains worker pool settings.
type WorkerConfig struct {
	// ExecutorPoolSize bounds how many virtual-switch requests the
	// in-process executor (internal/sai/vswitch) processes concurrently.
	ExecutorPoolSize int `mapstructure:"executor_pool_size"`
}

var (
	bootstrapLoggerOnce sync.Once
	bootstrapLogger     *zap.Logger
)

// Load reads configuration from file and environment variables.
// ADR-0018: Standard environment variables without prefix (REDIS_ADDR, SERVER_PORT, etc.).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/sai-redis-go")

	// Environment variable override (ADR-0018)
	// No prefix: uses standard names like REDIS_ADDR, SERVER_PORT, LOG_LEVEL
	// Maps nested config: redis.dial_timeout → REDIS_DIAL_TIMEOUT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// ADR-0025: Auto-generate secrets on first boot if missing.
	if err := cfg.ensureSecrets(); err != nil {
		return nil, fmt.Errorf("ensure secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.Redis.OutboundList == "" || c.Redis.ResponseList == "" {
		return fmt.Errorf("redis.outbound_list and redis.response_list must not be empty")
	}
	if c.Redis.OutboundList == c.Redis.ResponseList {
		return fmt.Errorf("redis.outbound_list and redis.response_list must be distinct")
	}
	if c.Pipeline.SwitchType != "asic" && c.Pipeline.SwitchType != "virtual" {
		return fmt.Errorf("pipeline.switch_type must be one of: asic, virtual")
	}
	return nil
}

// ensureSecrets auto-generates missing secrets per ADR-0025.
func (c *Config) ensureSecrets() error {
	if c.Security.AdminToken == "" {
		token, err := generateSecureRandomHex(32)
		if err != nil {
			return fmt.Errorf("auto-generate admin token: %w", err)
		}
		c.Security.AdminToken = token
		logBootstrapWarn(
			"auto-generated security.admin_token (ADR-0025); set SECURITY_ADMIN_TOKEN env var for persistence",
			zap.Int("length", len(token)),
		)
	}
	return nil
}

func logBootstrapWarn(msg string, fields ...zap.Field) {
	bootstrapLoggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

		l, err := cfg.Build()
		if err != nil {
			bootstrapLogger = zap.NewNop()
			return
		}
		bootstrapLogger = l
	})

	bootstrapLogger.Warn(msg, fields...)
}

// generateSecureRandomHex produces a hex-encoded string of n random bytes.
func generateSecureRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func setDefaults(v *viper.Viper) {
	// Server (diagnostic surface)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.unsafe_allow_all_origins", false)

	// Redis (pipeline transport)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.outbound_list", "sai:outbound")
	v.SetDefault("redis.response_list", "sai:response")
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// VSwitch
	v.SetDefault("vswitch.response_delay", "0s")

	// Pipeline environment controls (spec.md §6)
	v.SetDefault("pipeline.record_trace", false)
	v.SetDefault("pipeline.response_timeout", "5s")
	v.SetDefault("pipeline.switch_type", "virtual")

	// Security (ADR-0025)
	v.SetDefault("security.admin_token", "")

	// Worker Pool (ADR-0031)
	v.SetDefault("worker.executor_pool_size", 50)
}
