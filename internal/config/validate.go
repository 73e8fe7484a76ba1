package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var recognizedFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
}

// Validate checks a Config for semantic errors.
// It returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if !recognizedFormats[cfg.Format] {
		errs = append(errs, ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unrecognized format %q (want text or json)", cfg.Format),
		})
	}

	if cfg.Record.DSN != "" && strings.TrimSpace(cfg.Record.DSN) == "" {
		errs = append(errs, ValidationError{Field: "record.dsn", Message: "is blank"})
	}

	if cfg.Record.Timeout != "" {
		d, err := time.ParseDuration(cfg.Record.Timeout)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "record.timeout",
				Message: fmt.Sprintf("invalid duration %q", cfg.Record.Timeout),
			})
		} else if d <= 0 {
			errs = append(errs, ValidationError{Field: "record.timeout", Message: "must be positive"})
		}
	}

	return errs
}

// RecordTimeout returns the recorder timeout, falling back when unset or invalid.
func (c *Config) RecordTimeout(fallback time.Duration) time.Duration {
	if c.Record.Timeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.Record.Timeout)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
