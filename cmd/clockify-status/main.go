// Command clockify-status is the xbar plugin: it prints today's tracked time
// and the clock-in/clock-out actions in the xbar menu format.
//
// Install by symlinking it into the xbar plugins folder with a refresh
// interval in the name, e.g. clockify.1m.cgo, next to the clock-in and
// clock-out binaries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"xbar-clockify/internal/app"
	"xbar-clockify/internal/config"
	"xbar-clockify/internal/xbar"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging")
	actions := flag.String("actions", "", "Directory holding the clock-in and clock-out binaries (default: next to this binary)")
	flag.Parse()

	// stdout belongs to xbar
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg config.Config
	// xbar must always get a menu
	defer func() {
		if r := recover(); r != nil {
			fail(logger, fmt.Errorf("unexpected failure: %v", r), cfg.EnvFile)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		fail(logger, err, cfg.EnvFile)
	}

	actionsDir := *actions
	if actionsDir == "" {
		actionsDir = executableDir(logger)
	}

	status := app.New(logger, cfg).Status(actionsDir)
	if err := status.Render(ctx, os.Stdout); err != nil {
		fail(logger, err, cfg.EnvFile)
	}
	status.Wait()
}

func fail(logger *slog.Logger, err error, envFile string) {
	logger.Error("render failed", slog.String("error", err.Error()))
	if werr := xbar.Write(os.Stdout, app.ErrorMenu(err, envFile)); werr != nil {
		logger.Error("writing error menu failed", slog.String("error", werr.Error()))
	}
	os.Exit(1)
}

func executableDir(logger *slog.Logger) string {
	exe, err := os.Executable()
	if err != nil {
		logger.Warn("cannot resolve executable path", slog.String("error", err.Error()))
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
