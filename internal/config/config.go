package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. LIGHTGIT_GIT_EXECUTABLE for git.executable.
const EnvPrefix = "LIGHTGIT"

// Config represents the complete lightgit configuration
type Config struct {
	Git       GitConfig       `mapstructure:"git" yaml:"git"`
	Tracker   TrackerConfig   `mapstructure:"tracker" yaml:"tracker"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	StatusBar StatusBarConfig `mapstructure:"statusbar" yaml:"statusbar"`
}

// GitConfig controls how git is invoked
type GitConfig struct {
	// Executable is the git binary to run. Empty means "git" on PATH.
	// A leading ~/ is expanded.
	Executable string `mapstructure:"executable" yaml:"executable"`
}

// TrackerConfig controls the location tracker
type TrackerConfig struct {
	// ClearOnSelect blanks the location as soon as another file is selected,
	// instead of keeping the previous location until the lookup finishes
	ClearOnSelect bool `mapstructure:"clear_on_select" yaml:"clear_on_select"`
	// LookupTimeoutMs bounds a single git lookup in milliseconds (0 = no limit)
	LookupTimeoutMs int `mapstructure:"lookup_timeout_ms" yaml:"lookup_timeout_ms"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled turns on logging (default: false)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where lightgit.log is written. Empty means <config dir>/logs.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// StatusBarConfig controls how the location is displayed
type StatusBarConfig struct {
	// Prefix is the label shown before the location (default: "Git")
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	// UnknownText is shown when the location is unknown (default: blank)
	UnknownText string `mapstructure:"unknown_text" yaml:"unknown_text"`
	// MaxWidth truncates the item to this many columns (0 = no limit)
	MaxWidth int `mapstructure:"max_width" yaml:"max_width"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Git: GitConfig{
			Executable: "", // Discover git on PATH
		},
		Tracker: TrackerConfig{
			ClearOnSelect:   false,
			LookupTimeoutMs: 5000,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Dir:     "",
		},
		StatusBar: StatusBarConfig{
			Prefix:      "Git",
			UnknownText: "",
			MaxWidth:    0,
		},
	}
}

// LookupTimeout returns the lookup timeout as a time.Duration
func (c *TrackerConfig) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutMs) * time.Millisecond
}

// ResolveDir returns the log directory, defaulting to <config dir>/logs
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}
	return expandHome(c.Dir)
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("git.executable", defaults.Git.Executable)

	viper.SetDefault("tracker.clear_on_select", defaults.Tracker.ClearOnSelect)
	viper.SetDefault("tracker.lookup_timeout_ms", defaults.Tracker.LookupTimeoutMs)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("statusbar.prefix", defaults.StatusBar.Prefix)
	viper.SetDefault("statusbar.unknown_text", defaults.StatusBar.UnknownText)
	viper.SetDefault("statusbar.max_width", defaults.StatusBar.MaxWidth)
}

// BindEnv makes LIGHTGIT_* environment variables override config keys
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ExecutablePath returns the configured git executable. It reads viper on
// every call so edits to the config take effect on the next lookup.
func ExecutablePath() string {
	return viper.GetString("git.executable")
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lightgit")
	}
	// Fall back to ~/.config/lightgit
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lightgit"
	}
	return filepath.Join(home, ".config", "lightgit")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
