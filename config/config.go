// Package config loads CLI settings from defaults, an optional yaml file and
// TEXTFIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Measurers.
const (
	MeasurerCanvas = "canvas"
	MeasurerApprox = "approx"
)

// Config is the resolved CLI configuration.
type Config struct {
	FontFamily string      `mapstructure:"font_family" yaml:"font_family" json:"font_family"`
	// FontFile, when set, is loaded as FontFamily instead of the built-in Go fonts.
	FontFile   string      `mapstructure:"font_file" yaml:"font_file,omitempty" json:"font_file,omitempty"`
	Measurer   string      `mapstructure:"measurer" yaml:"measurer" json:"measurer"`
	Store      StoreConfig `mapstructure:"store" yaml:"store" json:"store"`
	Output     string      `mapstructure:"output" yaml:"output" json:"output"`
}

// StoreConfig selects where preferences are persisted.
type StoreConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend" json:"backend"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		FontFamily: "Go",
		Measurer:   MeasurerCanvas,
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    defaultStorePath(BackendFile),
		},
		Output: "yaml",
	}
}

func defaultStorePath(backend string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	switch backend {
	case BackendSQLite:
		return filepath.Join(home, ".textfit", "prefs.db")
	case BackendFile:
		return filepath.Join(home, ".textfit", "prefs.json")
	default:
		return ""
	}
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Measurer {
	case MeasurerCanvas, MeasurerApprox:
	default:
		return fmt.Errorf("unknown measurer %q (want canvas or approx)", c.Measurer)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q (want memory, file or sqlite)", c.Store.Backend)
	}
	switch c.Output {
	case "yaml", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	return nil
}

// Manager owns a viper instance and the last loaded Config.
type Manager struct {
	v *viper.Viper

	mu        sync.RWMutex
	config    Config
	callbacks []func(Config)
}

// Load reads configuration. cfgFile may be empty, in which case textfit.yaml is
// searched in the working directory and $HOME/.textfit; a missing file is not an error.
func Load(cfgFile string) (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.init(cfgFile); err != nil {
		return nil, err
	}
	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	m.config = cfg
	return m, nil
}

func (m *Manager) init(cfgFile string) error {
	defaults := DefaultConfig()
	m.v.SetDefault("font_family", defaults.FontFamily)
	m.v.SetDefault("font_file", "")
	m.v.SetDefault("measurer", defaults.Measurer)
	m.v.SetDefault("store.backend", defaults.Store.Backend)
	m.v.SetDefault("store.path", "")
	m.v.SetDefault("output", defaults.Output)

	// TEXTFIT_STORE_BACKEND -> store.backend
	m.v.SetEnvPrefix("TEXTFIT")
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	if cfgFile != "" {
		m.v.SetConfigFile(cfgFile)
	} else {
		m.v.SetConfigName("textfit")
		m.v.SetConfigType("yaml")
		m.v.AddConfigPath(".")
		m.v.AddConfigPath("$HOME/.textfit")
	}

	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func (m *Manager) load() (Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Measurer = strings.ToLower(cfg.Measurer)
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)
	cfg.Output = strings.ToLower(cfg.Output)
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath(cfg.Store.Backend)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Get returns the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Set overrides a single key, e.g. from a command-line flag, and reloads.
func (m *Manager) Set(key string, value any) error {
	m.v.Set(key, value)
	cfg, err := m.load()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// OnChange registers a callback run after the config file changes and reloads.
func (m *Manager) OnChange(fn func(Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// WatchConfig enables hot-reloading. Invalid edits are ignored and the previous
// config stays in effect.
func (m *Manager) WatchConfig() {
	m.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := m.load()
		if err != nil {
			return
		}
		m.mu.Lock()
		m.config = cfg
		callbacks := make([]func(Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	m.v.WatchConfig()
}
