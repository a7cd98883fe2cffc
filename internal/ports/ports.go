package ports

import (
	"context"

	"xbar-clockify/internal/domain"
	"xbar-clockify/internal/notify"
)

// ClockifyClient defines the time-tracking operations used by the widget.
type ClockifyClient interface {
	ClockIn(ctx context.Context) (domain.TimeEntry, error)
	ClockOut(ctx context.Context) (domain.TimeEntry, error)
	TimeEntries(ctx context.Context) ([]domain.TimeEntry, error)
}

// Notifier shows desktop notifications.
type Notifier interface {
	Notify(ctx context.Context, n notify.Notification) error
}

// Sink receives entries and persists them to a target system.
type Sink interface {
	SyncEntries(ctx context.Context, entries []domain.TimeEntry) error
}
