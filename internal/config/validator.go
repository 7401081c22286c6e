package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "tracker.lookup_timeout_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// maxLookupTimeoutMs caps tracker.lookup_timeout_ms at ten minutes
const maxLookupTimeoutMs = 10 * 60 * 1000

// maxPrefixLength keeps the status bar label short
const maxPrefixLength = 32

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateGit()...)
	errors = append(errors, c.validateTracker()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateStatusBar()...)

	return errors
}

// validateGit validates the GitConfig
func (c *Config) validateGit() []ValidationError {
	var errors []ValidationError

	exe := c.Git.Executable
	if exe != "" && strings.TrimSpace(exe) == "" {
		errors = append(errors, ValidationError{
			Field:   "git.executable",
			Value:   exe,
			Message: "must not be blank; leave empty to use git from PATH",
		})
	}
	if strings.ContainsAny(exe, "\n\r") {
		errors = append(errors, ValidationError{
			Field:   "git.executable",
			Value:   exe,
			Message: "must not contain line breaks",
		})
	}

	return errors
}

// validateTracker validates the TrackerConfig
func (c *Config) validateTracker() []ValidationError {
	var errors []ValidationError

	if c.Tracker.LookupTimeoutMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "tracker.lookup_timeout_ms",
			Value:   c.Tracker.LookupTimeoutMs,
			Message: "must be non-negative (0 disables the timeout)",
		})
	}
	if c.Tracker.LookupTimeoutMs > maxLookupTimeoutMs {
		errors = append(errors, ValidationError{
			Field:   "tracker.lookup_timeout_ms",
			Value:   c.Tracker.LookupTimeoutMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxLookupTimeoutMs),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateStatusBar validates the StatusBarConfig
func (c *Config) validateStatusBar() []ValidationError {
	var errors []ValidationError

	if len(c.StatusBar.Prefix) > maxPrefixLength {
		errors = append(errors, ValidationError{
			Field:   "statusbar.prefix",
			Value:   c.StatusBar.Prefix,
			Message: fmt.Sprintf("must be at most %d characters", maxPrefixLength),
		})
	}
	if c.StatusBar.MaxWidth < 0 {
		errors = append(errors, ValidationError{
			Field:   "statusbar.max_width",
			Value:   c.StatusBar.MaxWidth,
			Message: "must be non-negative (0 disables truncation)",
		})
	}
	for field, value := range map[string]string{
		"statusbar.prefix":       c.StatusBar.Prefix,
		"statusbar.unknown_text": c.StatusBar.UnknownText,
	} {
		if strings.ContainsAny(value, "\n\r") {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   value,
				Message: "must be a single line",
			})
		}
	}

	return errors
}
