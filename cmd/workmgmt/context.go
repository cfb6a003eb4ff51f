package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"workmgmt/internal/config"
	"workmgmt/internal/core"
)

type (
	configKey  struct{}
	serviceKey struct{}
	loggerKey  struct{}
	logFileKey struct{}
)

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func withLogger(ctx context.Context, logger *log.Logger, f *os.File) context.Context {
	ctx = context.WithValue(ctx, loggerKey{}, logger)
	if f != nil {
		ctx = context.WithValue(ctx, logFileKey{}, f)
	}
	return ctx
}

func loggerFromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return logger
	}
	return log.Default()
}

func withService(ctx context.Context, svc *core.Service) context.Context {
	return context.WithValue(ctx, serviceKey{}, svc)
}

func serviceFromContext(ctx context.Context) *core.Service {
	svc, _ := ctx.Value(serviceKey{}).(*core.Service)
	return svc
}
