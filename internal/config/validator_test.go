package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:   "explicit executable",
			modify: func(c *Config) { c.Git.Executable = "/usr/bin/git" },
		},
		{
			name:      "blank executable",
			modify:    func(c *Config) { c.Git.Executable = "   " },
			wantField: "git.executable",
		},
		{
			name:      "executable with newline",
			modify:    func(c *Config) { c.Git.Executable = "/usr/bin/git\n" },
			wantField: "git.executable",
		},
		{
			name:   "zero timeout disables limit",
			modify: func(c *Config) { c.Tracker.LookupTimeoutMs = 0 },
		},
		{
			name:      "negative timeout",
			modify:    func(c *Config) { c.Tracker.LookupTimeoutMs = -1 },
			wantField: "tracker.lookup_timeout_ms",
		},
		{
			name:      "timeout too large",
			modify:    func(c *Config) { c.Tracker.LookupTimeoutMs = maxLookupTimeoutMs + 1 },
			wantField: "tracker.lookup_timeout_ms",
		},
		{
			name:   "debug level",
			modify: func(c *Config) { c.Logging.Level = "debug" },
		},
		{
			name:      "unknown level",
			modify:    func(c *Config) { c.Logging.Level = "trace" },
			wantField: "logging.level",
		},
		{
			name:      "long prefix",
			modify:    func(c *Config) { c.StatusBar.Prefix = strings.Repeat("x", maxPrefixLength+1) },
			wantField: "statusbar.prefix",
		},
		{
			name:      "multi-line unknown text",
			modify:    func(c *Config) { c.StatusBar.UnknownText = "no\nrepo" },
			wantField: "statusbar.unknown_text",
		},
		{
			name:   "empty prefix",
			modify: func(c *Config) { c.StatusBar.Prefix = "" },
		},
		{
			name:      "negative max width",
			modify:    func(c *Config) { c.StatusBar.MaxWidth = -1 },
			wantField: "statusbar.max_width",
		},
		{
			name:   "max width set",
			modify: func(c *Config) { c.StatusBar.MaxWidth = 40 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}

			found := false
			for _, err := range errs {
				if err.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for %s, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	want := []string{"debug", "info", "warn", "error"}
	if strings.Join(levels, ",") != strings.Join(want, ",") {
		t.Errorf("ValidLogLevels() = %v, want %v", levels, want)
	}
}
