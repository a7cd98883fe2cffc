// Package network detects the current WiFi network and prompts the user to
// clock in when it matches the company network.
package network

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"xbar-clockify/internal/command"
	"xbar-clockify/internal/domain"
	"xbar-clockify/internal/notify"
)

const networksetup = "networksetup"

// Interfaces probed when the hardware port listing has no WiFi entry.
var fallbackInterfaces = []string{"en0", "en1", "en2"}

const defaultInterface = "en0"

// Notifier is the part of notify.Notifier the watcher uses.
type Notifier interface {
	Notify(ctx context.Context, n notify.Notification) error
	OnClick(h notify.Handler) *notify.Subscription
}

// ClockInner starts a time entry.
type ClockInner interface {
	ClockIn(ctx context.Context) (domain.TimeEntry, error)
}

// Watcher owns the click subscription of the clock-in prompt.
type Watcher struct {
	CompanyNetwork string
	CommandTimeout time.Duration
	PromptTimeout  time.Duration
	Icon           string

	run      command.Runner
	notifier Notifier
	clock    ClockInner
	log      *slog.Logger

	sub *notify.Subscription
}

func NewWatcher(companyNetwork string, run command.Runner, notifier Notifier, clock ClockInner, log *slog.Logger) *Watcher {
	return &Watcher{
		CompanyNetwork: companyNetwork,
		CommandTimeout: 5 * time.Second,
		run:            run,
		notifier:       notifier,
		clock:          clock,
		log:            log,
	}
}

// ActiveInterface returns the WiFi device name (e.g. en0), or "" when none is
// found.
func (w *Watcher) ActiveInterface(ctx context.Context) string {
	out, err := w.exec(ctx, "-listallhardwareports")
	if err != nil {
		w.log.Warn("listing hardware ports failed, assuming default interface",
			slog.String("interface", defaultInterface), slog.String("error", err.Error()))
		return defaultInterface
	}
	if dev := parseWifiDevice(string(out)); dev != "" {
		return dev
	}
	for _, iface := range fallbackInterfaces {
		if _, err := w.exec(ctx, "-getairportnetwork", iface); err == nil {
			return iface
		}
	}
	return ""
}

// parseWifiDevice scans networksetup -listallhardwareports output:
//
//	Hardware Port: Wi-Fi
//	Device: en0
func parseWifiDevice(out string) string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	for i, line := range lines {
		if !strings.Contains(line, "Hardware Port:") {
			continue
		}
		if !strings.Contains(line, "Wi-Fi") && !strings.Contains(line, "AirPort") {
			continue
		}
		if i+1 < len(lines) {
			if dev, ok := strings.CutPrefix(lines[i+1], "Device: "); ok && dev != "" {
				return dev
			}
		}
	}
	return ""
}

// WifiName returns the network the WiFi interface is associated with, or ""
// when it is not associated or no interface exists.
func (w *Watcher) WifiName(ctx context.Context) string {
	iface := w.ActiveInterface(ctx)
	if iface == "" {
		return ""
	}
	out, err := w.exec(ctx, "-getairportnetwork", iface)
	if err != nil {
		var ee *command.ExitError
		if errors.As(err, &ee) && (ee.Code == 1 || strings.Contains(ee.Stderr, "not associated")) {
			return ""
		}
		w.log.Error("getting WiFi name failed", slog.String("interface", iface), slog.String("error", err.Error()))
		return ""
	}
	s := strings.TrimSpace(string(out))
	if strings.Contains(s, "not associated") {
		return ""
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// NotifyClockIn asks the user to clock in when connected to the company
// network. A click on the notification starts a time entry.
func (w *Watcher) NotifyClockIn(ctx context.Context) error {
	if w.CompanyNetwork == "" {
		return nil
	}
	w.sub.Cancel()
	w.sub = nil

	network := w.WifiName(ctx)
	if network == "" || network != w.CompanyNetwork {
		w.log.Debug("not on company network", slog.String("network", network))
		return nil
	}

	w.sub = w.notifier.OnClick(func(ctx context.Context, ev notify.Event) {
		if ev != notify.EventClicked && ev != notify.EventActivate {
			return
		}
		if _, err := w.clock.ClockIn(ctx); err != nil {
			w.log.Error("clock in from notification failed", slog.String("error", err.Error()))
		}
	})

	return w.notifier.Notify(ctx, notify.Notification{
		Title:      "Connected to " + network + " network",
		Message:    "Looks like you just connected to " + network + ". Do you want to clock in?",
		Icon:       w.Icon,
		Sound:      "Blow",
		Wait:       true,
		Timeout:    w.PromptTimeout,
		CloseLabel: "Dismiss",
		Actions:    []string{"Clock in"},
	})
}

// Close drops the click subscription.
func (w *Watcher) Close() {
	w.sub.Cancel()
	w.sub = nil
}

func (w *Watcher) exec(ctx context.Context, args ...string) ([]byte, error) {
	if w.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.CommandTimeout)
		defer cancel()
	}
	return w.run.Run(ctx, networksetup, args...)
}
