package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xeonx/timeago"

	"xbar-clockify/internal/adapter/clockify"
	"xbar-clockify/internal/config"
	"xbar-clockify/internal/ports"
	"xbar-clockify/internal/usecase"
	"xbar-clockify/internal/xbar"
)

const (
	colorError     = "#FF0000"
	clockInBinary  = "clock-in"
	clockOutBinary = "clock-out"
)

// Prompter shows the clock-in prompt on the company network. Close releases
// its click subscription.
type Prompter interface {
	NotifyClockIn(ctx context.Context) error
	Close()
}

// Gate reports whether the prompt may be shown now.
type Gate interface {
	CheckAndUpdate() bool
}

// Status renders the menu-bar plugin output.
type Status struct {
	Log        *slog.Logger
	Client     ports.ClockifyClient
	Prompter   Prompter
	Gate       Gate
	ActionsDir string
	TrackerURL string
	PromptWait time.Duration
	Now        func() time.Time

	bg sync.WaitGroup
}

// Render fetches today's entries and writes the menu to w. When the user is
// not working the clock-in prompt may start in the background; call Wait
// before exiting.
func (s *Status) Render(ctx context.Context, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.Log.Error("render panicked", slog.Any("panic", r))
			err = fmt.Errorf("render panicked: %v", r)
		}
	}()
	entries, err := s.Client.TimeEntries(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	sum := usecase.Summarize(entries, now)
	s.Log.Debug("summarized today",
		slog.Bool("working", sum.IsWorking),
		slog.Duration("worked", sum.Worked),
	)

	if !sum.IsWorking && s.Gate != nil && s.Prompter != nil && s.Gate.CheckAndUpdate() {
		s.promptAsync(ctx)
	}
	return xbar.Write(w, s.menu(sum, now))
}

func (s *Status) menu(sum usecase.Summary, now time.Time) []xbar.Item {
	tracker := s.TrackerURL
	if tracker == "" {
		tracker = config.DefaultTrackerURL
	}
	items := []xbar.Item{
		{Text: sum.StatusText(), Color: sum.Color(), Dropdown: xbar.Bool(false)},
		xbar.Separator,
		{
			Text:     "Clock in",
			Shell:    filepath.Join(s.ActionsDir, clockInBinary),
			Refresh:  true,
			Disabled: sum.IsWorking,
		},
		{
			Text:     "Clock out",
			Shell:    filepath.Join(s.ActionsDir, clockOutBinary),
			Refresh:  true,
			Disabled: !sum.IsWorking,
		},
		xbar.Separator,
		{Text: "Check my time", Href: tracker},
	}
	if sum.ActiveStart != nil {
		items = append(items,
			xbar.Separator,
			xbar.Item{Text: "Started " + timeago.English.FormatReference(*sum.ActiveStart, now), Disabled: true},
		)
	}
	return items
}

func (s *Status) promptAsync(ctx context.Context) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if s.PromptWait > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.PromptWait)
			defer cancel()
		}
		if err := s.Prompter.NotifyClockIn(ctx); err != nil {
			s.Log.Error("clock-in prompt failed", slog.String("error", err.Error()))
		}
	}()
}

// Wait blocks until the background prompt, if any, has finished and then
// closes the prompter.
func (s *Status) Wait() {
	s.bg.Wait()
	if s.Prompter != nil {
		s.Prompter.Close()
	}
}

// ErrorMenu is rendered instead of the status when anything fails. envFile is
// opened by "Check configuration"; it may be empty.
func ErrorMenu(err error, envFile string) []xbar.Item {
	kind := usecase.Classify(err)
	check := xbar.Item{Text: "Check configuration"}
	if envFile != "" {
		check.Shell = "/usr/bin/open"
		check.Params = []string{"-t", envFile}
	} else {
		check.Text = "Check configuration (no .env file found)"
		check.Disabled = true
	}
	return []xbar.Item{
		{Text: "⚠️ " + kind.String() + ": " + errorDetail(kind, err), Color: colorError},
		xbar.Separator,
		check,
		{Text: "Refresh", Refresh: true},
	}
}

func errorDetail(kind usecase.Kind, err error) string {
	switch kind {
	case usecase.KindAPI:
		var apiErr *clockify.APIError
		if errors.As(err, &apiErr) {
			return apiErr.Message
		}
	case usecase.KindNetwork:
		return "check your connection"
	}
	first, _, _ := strings.Cut(err.Error(), "\n")
	return first
}
