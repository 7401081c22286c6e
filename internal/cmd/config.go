package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/lightgit/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify lightgit configuration",
	Long: `View or modify lightgit configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  lightgit config set git.executable /usr/local/bin/git
  lightgit config set tracker.clear_on_select true

Valid keys:
  git.executable             - git binary (empty = git on PATH)
  tracker.clear_on_select    - Blank the location while a new file is resolved (true/false)
  tracker.lookup_timeout_ms  - Lookup timeout in milliseconds (0 = none)
  logging.enabled            - Write logs (true/false)
  logging.level              - debug, info, warn or error
  logging.dir                - Log directory
  statusbar.prefix           - Label shown before the location
  statusbar.unknown_text     - Text shown when the location is unknown
  statusbar.max_width        - Truncate the item to this many columns (0 = no limit)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/lightgit/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// configKeyTypes lists the keys accepted by config set.
var configKeyTypes = map[string]string{
	"git.executable":            "string",
	"tracker.clear_on_select":   "bool",
	"tracker.lookup_timeout_ms": "int",
	"logging.enabled":           "bool",
	"logging.level":             "string",
	"logging.dir":               "string",
	"statusbar.prefix":          "string",
	"statusbar.unknown_text":    "string",
	"statusbar.max_width":       "int",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "Configuration is invalid, showing defaults:\n%v\n", err)
		cfg = config.Default()
	}

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	keyType, ok := configKeyTypes[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'lightgit config set --help' to see valid keys", key)
	}

	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = intVal
	}

	// Validate the whole configuration with the new value applied
	candidate := config.Get()
	if err := applyValue(candidate, key, typedValue); err != nil {
		return err
	}
	if errs := candidate.Validate(); len(errs) > 0 {
		return config.ValidationErrors(errs)
	}

	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, typedValue)

	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

// applyValue sets key on cfg so the result can be validated before saving.
func applyValue(cfg *config.Config, key string, value any) error {
	node := map[string]any{}
	section, field, _ := strings.Cut(key, ".")
	node[section] = map[string]any{field: value}

	data, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// configHeader is prepended to files created by config init.
const configHeader = `# lightgit configuration
#
# git.executable: git binary to run (empty = git on PATH, ~/ is expanded).
#   Re-read before every lookup.
# tracker.clear_on_select: blank the location while a new file is resolved.
# tracker.lookup_timeout_ms: abandon a lookup after this many ms (0 = never).
# logging.level: debug, info, warn or error.
# statusbar.unknown_text: shown when the location is unknown (blank hides it).
# statusbar.max_width: truncate long branch names to this many columns.
#
# Every key can be overridden with LIGHTGIT_<SECTION>_<KEY>, e.g.
# LIGHTGIT_GIT_EXECUTABLE.

`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'lightgit config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to render default configuration: %w", err)
	}

	if err := os.WriteFile(configFile, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize lightgit's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. $HOME/.config/lightgit/config.yaml")
	fmt.Fprintf(out, "\nEnvironment variables: %s_* (e.g., %s_GIT_EXECUTABLE)\n", config.EnvPrefix, config.EnvPrefix)

	return nil
}
