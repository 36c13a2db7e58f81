// Package config provides configuration structures and loading for dbwipe.
package config

// Config represents the complete application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Cleanup  CleanupConfig  `yaml:"cleanup" mapstructure:"cleanup"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig identifies the connection to clean.
type DatabaseConfig struct {
	Driver             string `yaml:"driver" mapstructure:"driver"`
	DSN                string `yaml:"dsn" mapstructure:"dsn"`
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// CleanupConfig holds the default cleanup options. CLI flags override these
// per invocation.
type CleanupConfig struct {
	// Only restricts cleaning to exactly these tables (intersected with the
	// live inventory). Empty means all tables.
	Only []string `yaml:"only" mapstructure:"only"`
	// Except is always excluded, and wins over Only.
	Except []string `yaml:"except" mapstructure:"except"`
	// MigrationTables are bookkeeping tables excluded unconditionally,
	// regardless of Only/Except.
	MigrationTables []string `yaml:"migration_tables" mapstructure:"migration_tables"`
	Fast            bool     `yaml:"fast" mapstructure:"fast"`
	ResetIDs        bool     `yaml:"reset_ids" mapstructure:"reset_ids"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			MaxConnections:     1,
			MaxIdleConnections: 1,
		},
		Cleanup: CleanupConfig{
			MigrationTables: []string{"schema_migrations"},
			ResetIDs:        true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}
