package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigFile(t *testing.T) {
	// Save original value and restore after test
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	tests := []struct {
		name     string
		cfgValue string
		want     string
	}{
		{
			name:     "default config file",
			cfgValue: "dbwipe.yaml",
			want:     "dbwipe.yaml",
		},
		{
			name:     "custom config file",
			cfgValue: "/path/to/custom.yaml",
			want:     "/path/to/custom.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgValue
			got := GetConfigFile()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootCommandStructure(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "dbwipe", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.Equal(t, Version, rootCmd.Version)
}

func TestRootCommandPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	configFlag, err := flags.GetString("config")
	assert.NoError(t, err)
	assert.Equal(t, "dbwipe.yaml", configFlag)

	driverFlag, err := flags.GetString("driver")
	assert.NoError(t, err)
	assert.Equal(t, "", driverFlag)

	dsnFlag, err := flags.GetString("dsn")
	assert.NoError(t, err)
	assert.Equal(t, "", dsnFlag)

	logLevelFlag, err := flags.GetString("log-level")
	assert.NoError(t, err)
	assert.Equal(t, "", logLevelFlag)

	logFormatFlag, err := flags.GetString("log-format")
	assert.NoError(t, err)
	assert.Equal(t, "", logFormatFlag)
}

func TestRootCommandSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, len(commands))
	for i, cmd := range commands {
		commandNames[i] = cmd.Name()
	}

	expectedCommands := []string{
		"clean",
		"tables",
		"verify",
		"version",
	}

	for _, expected := range expectedCommands {
		assert.Contains(t, commandNames, expected, "Expected command %s not found", expected)
	}
}

func TestLoadConfig_MissingFileWithoutFlagsFails(t *testing.T) {
	originalCfgFile := cfgFile
	originalDriver := driver
	originalDSN := dsn
	defer func() {
		cfgFile = originalCfgFile
		driver = originalDriver
		dsn = originalDSN
	}()

	cfgFile = "/tmp/nonexistent_dbwipe_config.yaml"
	driver = ""
	dsn = ""

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_MissingFileToleratedWithFlags(t *testing.T) {
	originalCfgFile := cfgFile
	originalDriver := driver
	originalDSN := dsn
	defer func() {
		cfgFile = originalCfgFile
		driver = originalDriver
		dsn = originalDSN
	}()

	cfgFile = "/tmp/nonexistent_dbwipe_config.yaml"
	driver = "sqlite3"
	dsn = "file:app_test.db"

	cfg, err := loadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "file:app_test.db", cfg.Database.DSN)
	// Defaults still apply for everything the flags do not cover.
	assert.Equal(t, []string{"schema_migrations"}, cfg.Cleanup.MigrationTables)
}

func TestLoadConfig_InvalidDriverRejected(t *testing.T) {
	originalCfgFile := cfgFile
	originalDriver := driver
	originalDSN := dsn
	defer func() {
		cfgFile = originalCfgFile
		driver = originalDriver
		dsn = originalDSN
	}()

	cfgFile = "/tmp/nonexistent_dbwipe_config.yaml"
	driver = "couchdb"
	dsn = "whatever"

	_, err := loadConfig()
	assert.Error(t, err)
}
