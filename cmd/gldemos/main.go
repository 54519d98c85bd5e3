// Package main is the entry point for the gldemos scene runner.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/config"
	"github.com/Faultbox/gldemos/internal/demo"
	_ "github.com/Faultbox/gldemos/internal/demo/bloom"
	_ "github.com/Faultbox/gldemos/internal/demo/cannon"
	_ "github.com/Faultbox/gldemos/internal/demo/character"
	_ "github.com/Faultbox/gldemos/internal/demo/outline"
	_ "github.com/Faultbox/gldemos/internal/demo/texture"
	"github.com/Faultbox/gldemos/internal/logger"
)

func main() {
	config.ParseFlags()

	if config.ListDemos() {
		for _, name := range demo.Names() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== gldemos ===", zap.String("demo", cfg.Demo.Name), zap.Bool("headless", cfg.Graphics.Headless))
	logger.Sugar.Debugf("Config: %+v", cfg)

	d, err := demo.Lookup(cfg.Demo.Name)
	if err != nil {
		logger.Error("unknown demo", zap.Error(err), zap.Strings("available", demo.Names()))
		logger.Sync()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = demo.Run(ctx, cfg, d, clock.New())
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		err = nil
	}
	if err != nil {
		logger.Error("demo error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("demo finished", zap.String("demo", d.Name()))
}
