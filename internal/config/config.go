// Package config handles XDG configuration directory, file paths and
// environment settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskflow"

	// TokenFile is the stored bearer token filename.
	TokenFile = "token"

	// EnvFile is the optional settings file inside the config directory.
	EnvFile = ".env"

	// DefaultBaseURL is the backend used when TASKFLOW_API_URL is unset.
	DefaultBaseURL = "https://todobackend-kqc1.onrender.com"

	// DefaultTimeout bounds a single backend request.
	DefaultTimeout = 15 * time.Second
)

// Environment keys.
const (
	EnvAPIURL       = "TASKFLOW_API_URL"
	EnvTimeout      = "TASKFLOW_TIMEOUT"
	EnvUpdateRoutes = "TASKFLOW_UPDATE_ROUTES"
	EnvUsername     = "TASKFLOW_USERNAME"
	EnvPassword     = "TASKFLOW_PASSWORD"
)

// UpdateRoutes selects how task updates are addressed on the backend.
type UpdateRoutes string

const (
	// RoutesCombined sends every update to PATCH /tasks/{id}.
	RoutesCombined UpdateRoutes = "combined"
	// RoutesFields sends each field to PATCH /tasks/{id}/{field}.
	RoutesFields UpdateRoutes = "fields"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the backend root, without the trailing slash.
	BaseURL string

	// Timeout bounds each backend request.
	Timeout time.Duration

	// UpdateRoutes selects the update endpoint layout.
	UpdateRoutes UpdateRoutes

	// Username and Password are login defaults, usually from .env.
	Username string
	Password string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskflow or $HOME/.config/taskflow.
// Settings come from the process environment first, then from
// <dir>/.env, then from defaults.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadSettings() error {
	file, err := godotenv.Read(c.EnvPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("invalid %s: %w", c.EnvPath(), err)
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(file[key])
	}

	c.BaseURL = strings.TrimRight(lookup(EnvAPIURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	c.Timeout = DefaultTimeout
	if v := lookup(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid %s: %q", EnvTimeout, v)
		}
		c.Timeout = d
	}

	switch routes := UpdateRoutes(lookup(EnvUpdateRoutes)); routes {
	case "", RoutesCombined:
		c.UpdateRoutes = RoutesCombined
	case RoutesFields:
		c.UpdateRoutes = RoutesFields
	default:
		return fmt.Errorf("invalid %s: %q", EnvUpdateRoutes, routes)
	}

	c.Username = lookup(EnvUsername)
	c.Password = lookup(EnvPassword)
	return nil
}

// TokenPath returns the path to the stored bearer token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnvPath returns the path to the optional .env settings file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}
