package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyCommandStructure(t *testing.T) {
	assert.NotNil(t, verifyCmd)
	assert.Equal(t, "verify", verifyCmd.Use)
	assert.NotEmpty(t, verifyCmd.Short)
	assert.NotEmpty(t, verifyCmd.Long)
	assert.NotNil(t, verifyCmd.RunE)
}

func TestVerifyIsAddedToRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "verify" {
			found = true
			break
		}
	}
	assert.True(t, found, "verify command should be added to root command")
}
