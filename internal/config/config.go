package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"xbar-clockify/internal/notify"
)

// Required keys, in the order they are reported when missing.
var requiredKeys = []string{"API_TOKEN", "WORKSPACE_ID", "MY_USER_ID", "PROJECT_ID", "BASE_URL"}

var baseURLPattern = regexp.MustCompile(`^https?://`)

// DefaultTrackerURL is opened by "Check my time" unless TRACKER_URL is set.
const DefaultTrackerURL = "https://app.clockify.me/tracker"

const (
	defaultNotifyIcon     = "/System/Applications/Utilities/Terminal.app/Contents/Resources/Terminal.icns"
	defaultHTTPTimeout    = 15 * time.Second
	defaultCommandTimeout = 5 * time.Second
	defaultNotifyWait     = 2 * time.Minute
)

// Config holds environment-driven configuration.
type Config struct {
	Clockify struct {
		APIToken    string
		BaseURL     string // e.g. https://api.clockify.me/api
		WorkspaceID string
		UserID      string
		ProjectID   string
		TrackerURL  string
		HTTPTimeout time.Duration
	}
	Network struct {
		CompanyNetwork string // empty disables the clock-in prompt
		CommandTimeout time.Duration
		LockDir        string // default: ~/.xbar-clockify
		NotifyWait     time.Duration
	}
	Notify struct {
		Binary string // terminal-notifier executable
		Icon   string // icon of the clock-in prompt
	}
	MySQL struct {
		DSN string // only used by clockify-archive
	}
	// EnvFile is the dotenv file that was loaded, if any.
	EnvFile string
}

// ValidationError reports missing or malformed settings.
type ValidationError struct {
	Missing []string
	msg     string
}

func (e *ValidationError) Error() string { return e.msg }

// Load reads the dotenv file (if one is found) into the environment and then
// reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	path, err := loadEnvFile()
	cfg.EnvFile = path
	if err != nil {
		return cfg, err
	}
	return FromEnv(cfg)
}

// FromEnv fills cfg from the process environment and validates it.
func FromEnv(cfg Config) (Config, error) {
	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return cfg, &ValidationError{
			Missing: missing,
			msg: fmt.Sprintf("Missing required environment variables: %s\n"+
				"Please check your .env file. Required variables:\n  %s\n"+
				"Optional variables:\n  COMPANY_NETWORK (for automatic clock-in notifications)",
				strings.Join(missing, ", "), strings.Join(requiredKeys, "\n  ")),
		}
	}

	baseURL := strings.TrimSpace(os.Getenv("BASE_URL"))
	if !baseURLPattern.MatchString(baseURL) {
		return cfg, &ValidationError{
			msg: fmt.Sprintf("Invalid BASE_URL format. Must start with http:// or https://\nCurrent value: %s", baseURL),
		}
	}

	cfg.Clockify.APIToken = strings.TrimSpace(os.Getenv("API_TOKEN"))
	cfg.Clockify.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.Clockify.WorkspaceID = strings.TrimSpace(os.Getenv("WORKSPACE_ID"))
	cfg.Clockify.UserID = strings.TrimSpace(os.Getenv("MY_USER_ID"))
	cfg.Clockify.ProjectID = strings.TrimSpace(os.Getenv("PROJECT_ID"))
	cfg.Clockify.TrackerURL = getEnv("TRACKER_URL", DefaultTrackerURL)

	cfg.Network.CompanyNetwork = strings.TrimSpace(os.Getenv("COMPANY_NETWORK"))
	cfg.Network.LockDir = os.Getenv("LOCK_DIR")
	if cfg.Network.LockDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.Network.LockDir = filepath.Join(home, ".xbar-clockify")
	}

	var err error
	if cfg.Clockify.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", defaultHTTPTimeout); err != nil {
		return cfg, err
	}
	if cfg.Network.CommandTimeout, err = getDuration("COMMAND_TIMEOUT", defaultCommandTimeout); err != nil {
		return cfg, err
	}
	if cfg.Network.NotifyWait, err = getDuration("NOTIFY_WAIT", defaultNotifyWait); err != nil {
		return cfg, err
	}

	cfg.Notify.Binary = getEnv("NOTIFIER_PATH", notify.DefaultBinary)
	cfg.Notify.Icon = getEnv("NOTIFY_ICON", defaultNotifyIcon)

	cfg.MySQL.DSN = os.Getenv("MYSQL_DSN")
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, &ValidationError{msg: fmt.Sprintf("%s must be a positive duration like 15s, got %q", key, v)}
	}
	return d, nil
}
