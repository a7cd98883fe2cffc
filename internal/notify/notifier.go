// Package notify shows macOS desktop notifications through terminal-notifier
// and relays the user's response to subscribed handlers.
//
// Prompts with actions need a terminal-notifier build that understands
// -actions, -closeLabel, -timeout and -json, such as the one bundled with
// node-notifier (vendor/mac.noindex/terminal-notifier.app). Point Binary at
// its Contents/MacOS/terminal-notifier when the one on PATH lacks them.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"xbar-clockify/internal/command"
)

// Event is what the user did with a notification.
type Event string

const (
	EventClicked  Event = "clicked"
	EventActivate Event = "activate"
	EventClosed   Event = "closed"
	EventTimeout  Event = "timeout"
)

// Notification describes a single desktop notification.
type Notification struct {
	Title      string
	Message    string
	Icon       string // path or URL, optional
	Sound      string
	Wait       bool // block until the user interacts and dispatch the event
	Timeout    time.Duration
	CloseLabel string
	Actions    []string
}

// Handler receives events for notifications shown with Wait set.
type Handler func(ctx context.Context, ev Event)

// DefaultBinary is looked up on PATH.
const DefaultBinary = "terminal-notifier"

// Notifier implements ports.Notifier.
type Notifier struct {
	Binary string

	run command.Runner
	log *slog.Logger

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]Handler
}

func New(run command.Runner, log *slog.Logger) *Notifier {
	return &Notifier{Binary: DefaultBinary, run: run, log: log, subs: make(map[uint64]Handler)}
}

// Subscription is the handle returned by OnClick.
type Subscription struct {
	n    *Notifier
	id   uint64
	once sync.Once
}

// Cancel removes the handler. Calling it more than once is harmless.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.n.mu.Lock()
		delete(s.n.subs, s.id)
		s.n.mu.Unlock()
	})
}

// OnClick registers h for events of notifications shown with Wait set.
func (n *Notifier) OnClick(h Handler) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.subs[n.nextID] = h
	return &Subscription{n: n, id: n.nextID}
}

// Subscribers reports how many handlers are registered.
func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Notify shows note. With Wait set it blocks until the user responds (or the
// notification times out) and dispatches the resulting event.
func (n *Notifier) Notify(ctx context.Context, note Notification) error {
	bin := n.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	out, err := n.run.Run(ctx, bin, terminalNotifierArgs(note)...)
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		n.log.Debug("terminal-notifier not installed, falling back to osascript", slog.String("binary", bin))
		_, err = n.run.Run(ctx, "osascript", "-e", appleScript(note))
		return err
	}
	if err != nil {
		return err
	}
	if !note.Wait {
		return nil
	}
	ev, err := parseActivation(out)
	if err != nil {
		return err
	}
	n.log.Debug("notification event", slog.String("event", string(ev)))
	n.dispatch(ctx, ev)
	return nil
}

func (n *Notifier) dispatch(ctx context.Context, ev Event) {
	n.mu.Lock()
	handlers := make([]Handler, 0, len(n.subs))
	for _, h := range n.subs {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()
	for _, h := range handlers {
		h(ctx, ev)
	}
}

func terminalNotifierArgs(note Notification) []string {
	args := []string{"-title", note.Title, "-message", note.Message}
	if note.Sound != "" {
		args = append(args, "-sound", note.Sound)
	}
	if note.Icon != "" {
		args = append(args, "-appIcon", note.Icon)
	}
	if note.CloseLabel != "" {
		args = append(args, "-closeLabel", note.CloseLabel)
	}
	if len(note.Actions) > 0 {
		args = append(args, "-actions", strings.Join(note.Actions, ","))
	}
	if note.Wait {
		args = append(args, "-json")
		if note.Timeout > 0 {
			args = append(args, "-timeout", strconv.Itoa(int(note.Timeout.Seconds())))
		}
	}
	return args
}

// terminal-notifier -json reply, e.g. {"activationType":"actionClicked","activationValue":"Clock in"}
type activation struct {
	ActivationType  string `json:"activationType"`
	ActivationValue string `json:"activationValue"`
}

func parseActivation(out []byte) (Event, error) {
	var a activation
	if err := json.Unmarshal(out, &a); err != nil {
		return "", fmt.Errorf("notify: decode terminal-notifier reply: %w", err)
	}
	switch a.ActivationType {
	case "contentsClicked":
		return EventClicked, nil
	case "actionClicked":
		return EventActivate, nil
	case "timeout":
		return EventTimeout, nil
	default:
		return EventClosed, nil
	}
}

func appleScript(note Notification) string {
	s := fmt.Sprintf("display notification %s with title %s", strconv.Quote(note.Message), strconv.Quote(note.Title))
	if note.Sound != "" {
		s += " sound name " + strconv.Quote(note.Sound)
	}
	return s
}
