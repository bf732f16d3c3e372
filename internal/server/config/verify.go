package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// ErrInvalidConfig is wrapped by every Verify failure.
var ErrInvalidConfig = errors.New("invalid config")

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyRedis(&cfg.Server.Redis); err != nil {
		return err
	}
	if err := verifyMetrics(&cfg.Server.Metrics, cfg.Server.Redis.Addr); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyRedis(cfg *RedisConfig) error {
	if err := verifyAddr("server.redis.addr", cfg.Addr); err != nil {
		return err
	}
	if cfg.IdleTimeout < 0 {
		return fmt.Errorf("%w: server.redis.idle_timeout must not be negative", ErrInvalidConfig)
	}
	if cfg.WriteTimeout < 0 {
		return fmt.Errorf("%w: server.redis.write_timeout must not be negative", ErrInvalidConfig)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("%w: server.redis.rate_limit must not be negative", ErrInvalidConfig)
	}
	if cfg.MaxBulkLen <= 0 {
		return fmt.Errorf("%w: server.redis.max_bulk_len must be positive", ErrInvalidConfig)
	}
	if cfg.MaxArrayLen <= 0 {
		return fmt.Errorf("%w: server.redis.max_array_len must be positive", ErrInvalidConfig)
	}
	return nil
}

func verifyMetrics(cfg *MetricsConfig, redisAddr string) error {
	if !cfg.Enabled {
		return nil
	}
	if err := verifyAddr("server.metrics.addr", cfg.Addr); err != nil {
		return err
	}
	if cfg.Addr == redisAddr {
		return fmt.Errorf("%w: server.metrics.addr conflicts with server.redis.addr (%s)", ErrInvalidConfig, cfg.Addr)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("%w: log.level %q is not one of debug, info, warn, error", ErrInvalidConfig, cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	default:
		return fmt.Errorf("%w: log.format %q is not one of json, text", ErrInvalidConfig, cfg.Format)
	}
}

func verifyAddr(field, addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, field)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidConfig, field, addr, err)
	}
	return nil
}
