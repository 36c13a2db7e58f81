package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbwipe/dbwipe/internal/cleaner"
	"github.com/dbwipe/dbwipe/internal/config"
	"github.com/dbwipe/dbwipe/internal/database"
	"github.com/dbwipe/dbwipe/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	driver    string
	dsn       string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "dbwipe",
	Short: "Test-database cleaner",
	Long: `dbwipe clears all user data from a relational database between test
runs, as fast as the connected dialect allows, while preserving schema.

Views and migration bookkeeping tables are never touched. Foreign-key
enforcement is suspended for the duration of a clean and always restored,
so tables can be cleared in any order.

Supported dialects: MySQL/MariaDB, PostgreSQL, SQLite, SQL Server, Oracle,
IBM DB2, and a generic truncate-or-delete fallback.`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "dbwipe.yaml",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "",
		"Database driver (mysql, postgres, sqlite, sqlserver, oracle)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "",
		"Database connection string (overrides config file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// loadConfig reads the config file and applies CLI flag overrides. A missing
// config file is tolerated when --driver and --dsn are given.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if driver == "" || dsn == "" {
			return nil, fmt.Errorf("failed to load config (and no --driver/--dsn given): %w", err)
		}
		cfg = config.DefaultConfig()
	}

	if driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn != "" {
		cfg.Database.DSN = dsn
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Settings{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// connect opens the configured database and binds a Cleaner to it. The
// caller owns the returned manager's Close.
func connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.Manager, *cleaner.Cleaner, error) {
	manager := database.NewManager(&cfg.Database)
	if err := manager.Connect(ctx); err != nil {
		return nil, nil, err
	}

	cl, err := cleaner.NewFromDriver(manager.DB, cfg.Database.Driver, log)
	if err != nil {
		manager.Close()
		return nil, nil, err
	}
	if len(cfg.Cleanup.MigrationTables) > 0 {
		cl.SetBookkeepingTables(cfg.Cleanup.MigrationTables...)
	}
	return manager, cl, nil
}
