package config

import (
	"fmt"
	"strings"

	"github.com/dbwipe/dbwipe/internal/dialect"
	"github.com/dbwipe/dbwipe/internal/sqlutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Database.Driver == "" {
		errs = append(errs, ValidationError{Field: "database.driver", Message: "driver is required"})
	} else if _, err := dialect.Detect(c.Database.Driver); err != nil {
		errs = append(errs, ValidationError{Field: "database.driver", Message: err.Error()})
	}

	if c.Database.DSN == "" {
		errs = append(errs, ValidationError{Field: "database.dsn", Message: "dsn is required"})
	}

	if c.Database.MaxConnections < 0 {
		errs = append(errs, ValidationError{Field: "database.max_connections", Message: "must not be negative"})
	}

	errs = append(errs, validateTableNames("cleanup.only", c.Cleanup.Only)...)
	errs = append(errs, validateTableNames("cleanup.except", c.Cleanup.Except)...)
	errs = append(errs, validateTableNames("cleanup.migration_tables", c.Cleanup.MigrationTables)...)

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q (use debug, info, warn or error)", c.Logging.Level),
		})
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q (use json or text)", c.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateTableNames(field string, names []string) ValidationErrors {
	var errs ValidationErrors
	for _, name := range names {
		if !sqlutil.IsValidIdentifier(name) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid table name %q", name),
			})
		}
	}
	return errs
}
