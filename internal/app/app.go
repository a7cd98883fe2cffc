package app

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"xbar-clockify/internal/adapter/clockify"
	msql "xbar-clockify/internal/adapter/mysql"
	"xbar-clockify/internal/command"
	"xbar-clockify/internal/config"
	"xbar-clockify/internal/migrate"
	"xbar-clockify/internal/network"
	"xbar-clockify/internal/notify"
	"xbar-clockify/internal/usecase"
)

// App wires adapters and use cases for the entry points.
type App struct {
	log      *slog.Logger
	cfg      config.Config
	client   *clockify.Client
	notifier *notify.Notifier
	runner   command.Runner
}

func New(log *slog.Logger, cfg config.Config) *App {
	client := clockify.NewClient(clockify.Options{
		BaseURL:     cfg.Clockify.BaseURL,
		APIToken:    cfg.Clockify.APIToken,
		WorkspaceID: cfg.Clockify.WorkspaceID,
		UserID:      cfg.Clockify.UserID,
		ProjectID:   cfg.Clockify.ProjectID,
		Timeout:     cfg.Clockify.HTTPTimeout,
	}, log)
	runner := command.Exec{}
	notifier := notify.New(runner, log)
	notifier.Binary = cfg.Notify.Binary
	return &App{
		log:      log,
		cfg:      cfg,
		client:   client,
		notifier: notifier,
		runner:   runner,
	}
}

// Status builds the menu renderer. actionsDir holds the clock-in and
// clock-out executables.
func (a *App) Status(actionsDir string) *Status {
	watcher := network.NewWatcher(a.cfg.Network.CompanyNetwork, a.runner, a.notifier, a.client, a.log)
	watcher.CommandTimeout = a.cfg.Network.CommandTimeout
	watcher.PromptTimeout = a.cfg.Network.NotifyWait
	watcher.Icon = a.cfg.Notify.Icon
	return &Status{
		Log:        a.log,
		Client:     a.client,
		Prompter:   watcher,
		Gate:       network.NewCooldown(a.cfg.Network.LockDir, a.log),
		ActionsDir: actionsDir,
		TrackerURL: a.cfg.Clockify.TrackerURL,
		// room for the networksetup calls before the notification itself
		PromptWait: a.cfg.Network.NotifyWait + 4*a.cfg.Network.CommandTimeout,
	}
}

// ClockAction builds the clock-in/clock-out use case.
func (a *App) ClockAction() *usecase.ClockAction {
	return &usecase.ClockAction{Log: a.log, Client: a.client, Notifier: a.notifier}
}

// Archive runs migrations and returns the archive use case together with a
// function closing its database connection.
func (a *App) Archive(ctx context.Context) (*usecase.ArchiveUseCase, func() error, error) {
	if a.cfg.MySQL.DSN == "" {
		return nil, nil, errors.New("MYSQL_DSN is required for archiving")
	}
	if err := migrate.Run(ctx, a.cfg.MySQL.DSN, a.log); err != nil {
		return nil, nil, err
	}
	sink, err := msql.NewClient(ctx, a.cfg.MySQL.DSN, a.log)
	if err != nil {
		return nil, nil, err
	}
	uc := &usecase.ArchiveUseCase{Log: a.log, Clockify: a.client, Sink: sink}
	return uc, sink.Close, nil
}

// StandaloneNotifier is used when configuration failed and no App exists.
// NOTIFIER_PATH is still honoured.
func StandaloneNotifier(log *slog.Logger) *notify.Notifier {
	n := notify.New(command.Exec{}, log)
	if bin := os.Getenv("NOTIFIER_PATH"); bin != "" {
		n.Binary = bin
	}
	return n
}
