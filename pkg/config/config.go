// Package config provides persistence for butler's application
// configuration, stored as YAML at ~/.config/butler/config.yaml.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// PromptsDir is the storage root for prompt records.
	PromptsDir string `yaml:"prompts_dir"`

	// DefaultGroup is applied to new prompts created without an explicit
	// group. Empty means ungrouped (storage root).
	DefaultGroup string `yaml:"default_group"`

	// Editor overrides $EDITOR for the edit command.
	Editor string `yaml:"editor"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{PromptsDir: "~/.prompts"}
}

// ResolvePromptsDir expands the configured prompts directory. The
// PROMPTS_DIR environment variable takes precedence over the config file.
func (c Config) ResolvePromptsDir() string {
	dir := c.PromptsDir
	if env := os.Getenv("PROMPTS_DIR"); env != "" {
		dir = env
	}
	return expandHome(dir)
}

// ResolveEditor returns the editor command to use: the configured editor,
// then $EDITOR, then vi.
func (c Config) ResolveEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// Service loads and saves the configuration file. It is safe for
// concurrent use.
type Service struct {
	path   string
	mu     sync.RWMutex
	loaded *Config
}

// NewService creates a configuration service. If path is empty, it
// defaults to ~/.config/butler/config.yaml.
func NewService(path string) (*Service, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".config", "butler", "config.yaml")
	}
	return &Service{path: path}, nil
}

// Path returns the config file location.
func (s *Service) Path() string {
	return s.path
}

// Load reads the configuration from disk, caching the result. A missing
// file yields the defaults; a corrupt file is logged and also falls back
// to the defaults rather than blocking every command.
func (s *Service) Load() Config {
	s.mu.RLock()
	if s.loaded != nil {
		defer s.mu.RUnlock()
		return *s.loaded
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded != nil {
		return *s.loaded
	}

	cfg := Default()
	b, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		// No config yet, use defaults.
	case err != nil:
		slog.Warn("config: unreadable config file, using defaults", "path", s.path, "err", err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			slog.Warn("config: malformed config file, using defaults", "path", s.path, "err", err)
			cfg = Default()
		}
		if cfg.PromptsDir == "" {
			cfg.PromptsDir = Default().PromptsDir
		}
	}
	s.loaded = &cfg
	return cfg
}

// Save writes the configuration to disk atomically (temp file plus rename)
// and updates the cache.
func (s *Service) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("config: create config directory: %w", err)
	}
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("config: serialize: %w", err)
	}
	tmp := fmt.Sprintf("%s.%s.tmp", s.path, uuid.NewString()[:8])
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("config: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("config: atomic rename %s: %w", s.path, err)
	}
	s.loaded = &cfg
	return nil
}

// Set assigns a single configuration key by name and persists the result.
// Recognized keys: prompts_dir, default_group, editor.
func (s *Service) Set(key, value string) error {
	cfg := s.Load()
	switch key {
	case "prompts_dir":
		if value == "" {
			return fmt.Errorf("config: prompts_dir must not be empty")
		}
		cfg.PromptsDir = value
	case "default_group":
		cfg.DefaultGroup = value
	case "editor":
		cfg.Editor = value
	default:
		return fmt.Errorf("config: unknown key %q", key)
	}
	return s.Save(cfg)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
		}
	}
	return path
}
