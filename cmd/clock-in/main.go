// Command clock-in starts a Clockify time entry and reports the result as a
// desktop notification.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"xbar-clockify/internal/app"
	"xbar-clockify/internal/config"
	"xbar-clockify/internal/usecase"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		a := &usecase.ClockAction{Log: logger, Notifier: app.StandaloneNotifier(logger)}
		a.ReportFailure(ctx, usecase.ActionClockIn, err)
		os.Exit(1)
	}

	if err := app.New(logger, cfg).ClockAction().ClockIn(ctx); err != nil {
		os.Exit(1)
	}
}
