package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"xbar-clockify/internal/adapter/clockify"
	"xbar-clockify/internal/config"
	"xbar-clockify/internal/notify"
	"xbar-clockify/internal/ports"
)

// Kind classifies failures for user-facing messages.
type Kind int

const (
	KindUnexpected Kind = iota
	KindConfig
	KindAPI
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "Configuration error"
	case KindAPI:
		return "API error"
	case KindNetwork:
		return "Network error"
	default:
		return "Unexpected error"
	}
}

// Classify maps err onto a Kind.
func Classify(err error) Kind {
	var (
		verr   *config.ValidationError
		apiErr *clockify.APIError
		netErr *clockify.NetworkError
	)
	switch {
	case errors.As(err, &verr):
		return KindConfig
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &netErr):
		return KindNetwork
	default:
		return KindUnexpected
	}
}

// Action is a user-triggered clock operation.
type Action string

const (
	ActionClockIn  Action = "clock in"
	ActionClockOut Action = "clock out"
)

// FailureMessage is the notification text shown when action fails with err.
func FailureMessage(action Action, err error) string {
	if err == nil {
		return "Failed to " + string(action)
	}
	var (
		verr   *config.ValidationError
		apiErr *clockify.APIError
	)
	switch Classify(err) {
	case KindConfig:
		errors.As(err, &verr)
		first, _, _ := strings.Cut(verr.Error(), "\n")
		return "Configuration error: " + first
	case KindAPI:
		errors.As(err, &apiErr)
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			return "Authentication failed. Check your API token."
		case apiErr.StatusCode == http.StatusBadRequest && action == ActionClockIn:
			return "Invalid request. You may already be clocked in."
		case apiErr.StatusCode == http.StatusNotFound && action == ActionClockOut:
			return "No active time entry found to clock out."
		default:
			return "API error: " + apiErr.Message
		}
	case KindNetwork:
		return "Network error. Please check your connection."
	default:
		if msg := err.Error(); msg != "" {
			return msg
		}
		return "Failed to " + string(action)
	}
}

// ClockAction runs a clock operation and reports the outcome as a desktop
// notification.
type ClockAction struct {
	Log      *slog.Logger
	Client   ports.ClockifyClient
	Notifier ports.Notifier
}

func (a *ClockAction) ClockIn(ctx context.Context) error {
	return a.run(ctx, ActionClockIn, func(ctx context.Context) error {
		_, err := a.Client.ClockIn(ctx)
		return err
	})
}

func (a *ClockAction) ClockOut(ctx context.Context) error {
	return a.run(ctx, ActionClockOut, func(ctx context.Context) error {
		_, err := a.Client.ClockOut(ctx)
		return err
	})
}

func (a *ClockAction) run(ctx context.Context, action Action, fn func(context.Context) error) error {
	if a.Client == nil || a.Notifier == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	if err := fn(ctx); err != nil {
		a.Log.Error(string(action)+" failed", slog.String("kind", Classify(err).String()), slog.String("error", err.Error()))
		a.ReportFailure(ctx, action, err)
		return err
	}
	a.Log.Info(string(action) + " succeeded")
	if err := a.Notifier.Notify(ctx, notify.Notification{
		Title:   "Clockify",
		Message: "Successfully " + pastTense(action),
		Sound:   "Glass",
	}); err != nil {
		a.Log.Warn("success notification failed", slog.String("error", err.Error()))
	}
	return nil
}

// ReportFailure shows the failure notification for err. It is also used by
// the entry points when configuration fails before a client exists.
func (a *ClockAction) ReportFailure(ctx context.Context, action Action, err error) {
	if nerr := a.Notifier.Notify(ctx, notify.Notification{
		Title:   "Clockify Error",
		Message: FailureMessage(action, err),
		Sound:   "Basso",
	}); nerr != nil {
		a.Log.Warn("failure notification failed", slog.String("error", nerr.Error()))
	}
}

func pastTense(a Action) string {
	if a == ActionClockIn {
		return "clocked in"
	}
	return "clocked out"
}
