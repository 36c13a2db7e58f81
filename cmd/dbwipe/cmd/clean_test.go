package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCleanCommandStructure(t *testing.T) {
	assert.NotNil(t, cleanCmd)
	assert.Equal(t, "clean", cleanCmd.Use)
	assert.NotEmpty(t, cleanCmd.Short)
	assert.NotEmpty(t, cleanCmd.Long)
	assert.NotNil(t, cleanCmd.RunE)
}

func TestCleanCommandFlags(t *testing.T) {
	flags := cleanCmd.Flags()

	onlyFlag := flags.Lookup("only")
	assert.NotNil(t, onlyFlag)

	exceptFlag := flags.Lookup("except")
	assert.NotNil(t, exceptFlag)

	fastFlag := flags.Lookup("fast")
	assert.NotNil(t, fastFlag)
	assert.Equal(t, "false", fastFlag.DefValue)

	noResetFlag := flags.Lookup("no-reset-ids")
	assert.NotNil(t, noResetFlag)
	assert.Equal(t, "false", noResetFlag.DefValue)

	verifyFlag := flags.Lookup("verify")
	assert.NotNil(t, verifyFlag)

	yesFlag := flags.Lookup("yes")
	assert.NotNil(t, yesFlag)
	assert.Equal(t, "y", yesFlag.Shorthand)
}

func TestCleanIsAddedToRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "clean" {
			found = true
			break
		}
	}
	assert.True(t, found, "clean command should be added to root command")
}

func TestCleanCommandWarnsAboutDataLoss(t *testing.T) {
	assert.Contains(t, cleanCmd.Long, "WARNING")
	assert.Contains(t, cleanCmd.Long, "Example:")
	assert.Contains(t, cleanCmd.Long, "dbwipe clean")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "lowercase y", input: "y\n", wantErr: false},
		{name: "yes", input: "yes\n", wantErr: false},
		{name: "uppercase YES", input: "YES\n", wantErr: false},
		{name: "n aborts", input: "n\n", wantErr: true},
		{name: "empty aborts", input: "\n", wantErr: true},
		{name: "gibberish aborts", input: "sure why not\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetIn(strings.NewReader(tt.input))
			cmd.SetOut(&strings.Builder{})

			err := confirm(cmd, "proceed? ")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
