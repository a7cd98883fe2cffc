// Command clockify-archive copies recent Clockify time entries into MySQL.
// It is optional and not used by the menu-bar plugin.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"xbar-clockify/internal/app"
	"xbar-clockify/internal/config"
)

func main() {
	// Flags
	days := flag.Int("days", 1, "Archive entries that started within the last N days")
	from := flag.String("from", "", "RFC3339 or YYYY-MM-DD start (overrides -days)")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	// Logger
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	now := time.Now()
	fromTime := parseStart(*from, now.AddDate(0, 0, -*days), logger)

	// Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uc, closeSink, err := app.New(logger, cfg).Archive(ctx)
	if err != nil {
		logger.Error("failed to initialize archive", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeSink()

	if err := uc.Run(ctx, fromTime); err != nil {
		logger.Error("archive failed", slog.String("error", err.Error()))
		closeSink()
		os.Exit(1)
	}
}

// parseStart parses a start boundary that may be RFC3339 or YYYY-MM-DD
// (local midnight). If empty, defaultVal is returned.
func parseStart(val string, defaultVal time.Time, log *slog.Logger) time.Time {
	if val == "" {
		return defaultVal
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t
	}
	if d, err := time.ParseInLocation("2006-01-02", val, time.Local); err == nil {
		return d
	}
	log.Error("invalid --from, expected RFC3339 or YYYY-MM-DD")
	os.Exit(1)
	return time.Time{}
}
