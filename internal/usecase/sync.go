package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"xbar-clockify/internal/domain"
	"xbar-clockify/internal/ports"
)

// ArchiveUseCase copies recent Clockify entries into a Sink.
type ArchiveUseCase struct {
	Log      *slog.Logger
	Clockify ports.ClockifyClient
	Sink     ports.Sink
}

// Run archives every listed entry that started at or after from. Running
// entries are stored too and get their end time on a later run.
func (uc *ArchiveUseCase) Run(ctx context.Context, from time.Time) error {
	if uc.Clockify == nil || uc.Sink == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	uc.Log.Info("fetching time entries", slog.Time("from", from))

	entries, err := uc.Clockify.TimeEntries(ctx)
	if err != nil {
		return err
	}
	recent := make([]domain.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Interval.Start.Before(from) {
			recent = append(recent, e)
		}
	}
	uc.Log.Info("fetched time entries", slog.Int("count", len(entries)), slog.Int("recent", len(recent)))

	if len(recent) == 0 {
		uc.Log.Info("no entries to archive")
		return nil
	}

	if err := uc.Sink.SyncEntries(ctx, recent); err != nil {
		return err
	}
	uc.Log.Info("archive completed", slog.Int("count", len(recent)))
	return nil
}
