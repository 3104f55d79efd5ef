package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigCommand(t *testing.T) {
	cmd := NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 3)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "unset")
}

func TestConfigSetCommand(t *testing.T) {
	cmd := newConfigSetCommand()
	assert.Equal(t, "set KEY VALUE", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestConfigUnsetCommand(t *testing.T) {
	cmd := newConfigUnsetCommand()
	assert.Equal(t, "unset KEY", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestFormatConfigValue(t *testing.T) {
	assert.Equal(t, "-", formatConfigValue(""))
	assert.Equal(t, "bbp", formatConfigValue("bbp"))
}
