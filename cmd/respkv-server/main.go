package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "respkv-server",
		Usage:   "in-memory key-value server speaking RESP",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"RESPKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "RESP listen address (overrides server.redis.addr)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (overrides log.level)",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	configFile := c.String("config")

	cfg, err := loadConfig(configFile, flagOverrides(c))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting respkv-server",
		"version", buildinfo.Version,
		"config", configFile)

	reg := metric.NewRegistry()
	store := memory.New(memory.WithExpireHook(func(string) {
		reg.IncKeysExpired()
	}))
	if err := reg.RegisterStore(store); err != nil {
		return fmt.Errorf("register store metrics: %w", err)
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	redisSrv := redisserver.New(redisConfig(cfg), store,
		redisserver.WithLogger(log),
		redisserver.WithMetrics(reg),
	)
	if err := redisSrv.Start(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("start redis server: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(log))

	// Hooks run in reverse order of registration.
	shutdownHandler.OnShutdown("store", func(context.Context) error {
		return store.Close()
	})
	shutdownHandler.OnShutdown("redis server", redisSrv.Shutdown)

	if cfg.Server.Metrics.Enabled {
		router := httpserver.NewRouter(httpserver.RouterConfig{
			Metrics: reg.Handler(),
			Healthy: redisSrv.Running,
			Logger:  log,
		})
		httpSrv := httpserver.New(cfg.Server.Metrics.Addr, router, log)
		if err := httpSrv.Start(); err != nil {
			_ = shutdownHandler.Shutdown()
			return fmt.Errorf("start metrics server: %w", err)
		}
		shutdownHandler.OnShutdown("metrics server", httpSrv.Shutdown)
	}

	if configFile != "" {
		watcher, err := watchConfig(configFile, flagOverrides(c), log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// flagOverrides maps command-line flags onto config keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	if c.IsSet("addr") {
		overrides["server.redis.addr"] = c.String("addr")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	return overrides
}

// loadConfig loads configuration from defaults, file, environment and
// overrides, in that order.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and makes it the default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// redisConfig maps the file configuration onto the RESP server settings.
func redisConfig(cfg *config.ServerConfig) *redisserver.Config {
	rc := cfg.Server.Redis
	return &redisserver.Config{
		Address:      rc.Addr,
		IdleTimeout:  rc.IdleTimeout,
		WriteTimeout: rc.WriteTimeout,
		RateLimit:    rc.RateLimit,
		MaxBulkLen:   rc.MaxBulkLen,
		MaxArrayLen:  rc.MaxArrayLen,
	}
}

// watchConfig reloads configFile on change and applies the new log level.
func watchConfig(configFile string, overrides map[string]any, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(string) {
		reloadLogLevel(configFile, overrides, log)
	})
	watcher.StartAsync()
	return watcher, nil
}

func reloadLogLevel(configFile string, overrides map[string]any, log logger.Logger) {
	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		log.Warn("config reload rejected", "error", err)
		return
	}
	if cfg.Log.Level == logger.GetLevel() {
		return
	}
	logger.SetLevel(cfg.Log.Level)
	log.Info("log level changed", "level", cfg.Log.Level)
}
