// Package config resolves the widget configuration exactly once at startup.
// Components receive resolved values; nothing else reads the environment or
// the config file.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const workerURLKey = "loreal_worker_url"

// Environment overrides, the highest-precedence source.
const (
	EnvWorkerURL  = "LOREAL_WORKER_URL"
	EnvOpenAIKey  = "LOREAL_OPENAI_KEY"
	EnvTheme      = "LOREAL_THEME"
	EnvStateTable = "LOREAL_STATE_TABLE"
)

// fileConfig is the on-disk TOML shape.
type fileConfig struct {
	WorkerURL  string `toml:"worker_url"`
	OpenAIKey  string `toml:"openai_key"`
	Theme      string `toml:"theme"`
	StateTable string `toml:"state_table"`
}

// Config is the fully resolved widget configuration.
type Config struct {
	// WorkerURL is the relay endpoint. Empty means unconfigured.
	WorkerURL string
	// OpenAIKey enables the dev-only direct API path.
	OpenAIKey string
	// Theme is the selected theme identifier, if any.
	Theme string
	// StateTable selects the DynamoDB state backend when non-empty;
	// state lives in the local bolt file otherwise.
	StateTable string
}

// Configured reports whether any chat endpoint is available.
func (c Config) Configured() bool {
	return c.WorkerURL != "" || c.OpenAIKey != ""
}

// Storage is the persisted-override source consulted during resolution.
type Storage interface {
	Get(key string) ([]byte, bool, error)
}

// Resolve evaluates the endpoint precedence: environment override, then the
// persisted override, then the config file, then the built-in default
// (unconfigured). A missing or unreadable config file contributes nothing.
func Resolve(storage Storage, path string) Config {
	var fc fileConfig
	if path != "" {
		// Best effort: absence and parse failures both fall through.
		_, _ = toml.DecodeFile(path, &fc)
	}
	cfg := Config{
		WorkerURL:  strings.TrimSpace(fc.WorkerURL),
		OpenAIKey:  strings.TrimSpace(fc.OpenAIKey),
		Theme:      strings.TrimSpace(fc.Theme),
		StateTable: strings.TrimSpace(fc.StateTable),
	}

	if storage != nil {
		if raw, ok, err := storage.Get(workerURLKey); err == nil && ok {
			if v := string(bytes.TrimSpace(raw)); v != "" {
				cfg.WorkerURL = v
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvWorkerURL)); v != "" {
		cfg.WorkerURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOpenAIKey)); v != "" {
		cfg.OpenAIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStateTable)); v != "" {
		cfg.StateTable = v
	}
	return cfg
}

// DefaultPath returns the conventional config file location, or empty when
// the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".loreal-chat", "config.toml")
}

// DefaultStatePath returns the conventional local state file location.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "state.bolt"
	}
	return filepath.Join(home, ".loreal-chat", "state.bolt")
}
