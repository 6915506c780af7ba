package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type RuntimeConfig struct {
	StateDir             string
	DBPath               string
	AccountDSN           string
	APIAddr              string
	DesktopNotifications bool
	LogFile              string
	LogLevel             string
	SchedulerBuffer      int
	ToastSeconds         int
	SettingsFile         string
}

func DefaultRuntimeConfig() RuntimeConfig {
	stateDir := ".wellnessd"
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		stateDir = filepath.Join(home, ".wellnessd")
	}
	return RuntimeConfig{
		StateDir:             stateDir,
		DesktopNotifications: true,
		LogLevel:             "info",
		SchedulerBuffer:      64,
		ToastSeconds:         4,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("WELLNESSD_STATE_DIR"); ok {
		cfg.StateDir = v
	}
	if v, ok := getEnvString("WELLNESSD_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("WELLNESSD_ACCOUNT_DSN"); ok {
		cfg.AccountDSN = v
	}
	if v, ok := getEnvString("WELLNESSD_API_ADDR"); ok {
		cfg.APIAddr = v
	}
	if v, ok := getEnvBool("WELLNESSD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvString("WELLNESSD_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("WELLNESSD_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvInt("WELLNESSD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvInt("WELLNESSD_TOAST_SECONDS"); ok && v > 0 {
		cfg.ToastSeconds = v
	}
	if v, ok := getEnvString("WELLNESSD_SETTINGS_FILE"); ok {
		cfg.SettingsFile = v
	}
	return cfg
}

// Resolve fills paths that default to locations inside the state directory.
func (c RuntimeConfig) Resolve() RuntimeConfig {
	if c.StateDir == "" {
		c.StateDir = ".wellnessd"
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.StateDir, "wellnessd.db")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.StateDir, "wellnessd.log")
	}
	if c.ToastSeconds <= 0 {
		c.ToastSeconds = 4
	}
	if c.SchedulerBuffer <= 0 {
		c.SchedulerBuffer = 64
	}
	return c
}

func (c RuntimeConfig) ToastDuration() time.Duration {
	return time.Duration(c.ToastSeconds) * time.Second
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
