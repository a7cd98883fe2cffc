package network

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	lockFileName        = ".notify_lock"
	defaultLockDuration = time.Hour
)

// Cooldown throttles the clock-in prompt using the modification time of a
// lock file. Two overlapping processes may both see the window as elapsed.
type Cooldown struct {
	Dir      string
	Duration time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewCooldown(dir string, log *slog.Logger) *Cooldown {
	return &Cooldown{Dir: dir, Duration: defaultLockDuration, log: log, now: time.Now}
}

// Path is the lock file location.
func (c *Cooldown) Path() string { return filepath.Join(c.Dir, lockFileName) }

// CheckAndUpdate reports whether the cooldown window has elapsed. When it has
// (or the lock file does not exist yet) the lock file is rewritten. Errors are
// logged and reported as false.
func (c *Cooldown) CheckAndUpdate() bool {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		c.log.Error("creating lock directory failed", slog.String("dir", c.Dir), slog.String("error", err.Error()))
		return false
	}
	path := c.Path()
	st, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		c.log.Error("checking lock file failed", slog.String("path", path), slog.String("error", err.Error()))
		return false
	case c.now().Sub(st.ModTime()) <= c.Duration:
		return false
	}
	if err := c.touch(path); err != nil {
		c.log.Error("writing lock file failed", slog.String("path", path), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *Cooldown) touch(path string) error {
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return err
	}
	now := c.now()
	return os.Chtimes(path, now, now)
}
