package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookthreads/config"
	"bookthreads/internal/app"
	"bookthreads/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	log, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Error("init app", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Error("app stopped", "error", err)
		os.Exit(1)
	}
}
