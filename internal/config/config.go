// Package config handles the XDG configuration directory, environment
// settings and the stored session.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"tasker/internal/service"
)

const (
	// AppName is the application directory name.
	AppName = "tasker"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SessionFile is the stored backend session filename.
	SessionFile = "session.json"
)

// Backend kinds accepted by TASKER_BACKEND.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Env is the part of the configuration read from the environment.
type Env struct {
	APIURL     string          `env:"TASKER_API_URL" env-default:"http://localhost:5000/api"`
	Backend    string          `env:"TASKER_BACKEND" env-default:"rest"`
	Timeout    durationSeconds `env:"TASKER_TIMEOUT" env-default:"10s"`
	StrictAuth bool            `env:"TASKER_STRICT_AUTH" env-default:"false"`
	Offline    bool            `env:"TASKER_OFFLINE" env-default:"false"`
	ServeAddr  string          `env:"TASKER_SERVE_ADDR" env-default:":5000"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the base URL of the REST backend.
	APIURL string

	// Backend selects the remote: BackendREST or BackendGoogle.
	Backend string

	// Timeout bounds every remote request.
	Timeout time.Duration

	// StrictAuth makes login fail when the backend is unreachable instead
	// of starting an offline demo session.
	StrictAuth bool

	// Offline skips the remote and serves everything from local data.
	Offline bool

	// ServeAddr is the listen address of the development server.
	ServeAddr string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config with the default or specified config directory and
// the settings found in the environment.
// If configDir is empty, uses XDG_CONFIG_HOME/tasker or $HOME/.config/tasker.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	env, err := Load()
	if err != nil {
		return nil, err
	}
	return &Config{
		Dir:        dir,
		APIURL:     strings.TrimRight(env.APIURL, "/"),
		Backend:    env.Backend,
		Timeout:    env.Timeout.Duration(),
		StrictAuth: env.StrictAuth,
		Offline:    env.Offline,
		ServeAddr:  env.ServeAddr,
	}, nil
}

// Load reads the environment settings.
func Load() (Env, error) {
	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Env{}, fmt.Errorf("read env: %w", err)
	}
	env.Backend = strings.ToLower(strings.TrimSpace(env.Backend))
	switch env.Backend {
	case BackendREST, BackendGoogle:
	default:
		return Env{}, fmt.Errorf("TASKER_BACKEND: unknown backend %q (want rest or google)", env.Backend)
	}
	if env.Timeout <= 0 {
		return Env{}, fmt.Errorf("TASKER_TIMEOUT: must be positive")
	}
	return env, nil
}

// durationSeconds parses "10s", "5m" or a bare number of seconds.
type durationSeconds time.Duration

// SetValue implements cleanenv.Setter.
func (d *durationSeconds) SetValue(s string) error {
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = durationSeconds(v)
	return nil
}

func (d durationSeconds) Duration() time.Duration { return time.Duration(d) }

func parseDuration(s string) (time.Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
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

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// HasSession checks if a session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// SaveSession writes sess with mode 0600.
func (c *Config) SaveSession(sess service.Session) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.SessionPath(), data, 0600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession reads the stored session. ok is false when none is stored.
func (c *Config) LoadSession() (sess service.Session, ok bool, err error) {
	data, err := os.ReadFile(c.SessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return service.Session{}, false, nil
	}
	if err != nil {
		return service.Session{}, false, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return service.Session{}, false, fmt.Errorf("parse session: %w", err)
	}
	return sess, true, nil
}

// RemoveSession deletes the session file. A missing file is not an error.
func (c *Config) RemoveSession() error {
	err := os.Remove(c.SessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
