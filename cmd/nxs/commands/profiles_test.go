package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfilesCommand(t *testing.T) {
	cmd := NewProfilesCommand()
	assert.Equal(t, "profiles", cmd.Use)
	assert.Equal(t, []string{"profile"}, cmd.Aliases)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 5)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "add")
	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "select")
	assert.Contains(t, commandNames, "current")
	assert.Contains(t, commandNames, "remove")
}

func TestProfilesAddCommand(t *testing.T) {
	cmd := newProfilesAddCommand()
	assert.Equal(t, "add NAME URL", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
	assert.NotNil(t, cmd.Flags().Lookup("token"))
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "https URL unchanged",
			input:    "https://nexus.example.com",
			expected: "https://nexus.example.com",
		},
		{
			name:     "scheme added when missing",
			input:    "nexus.example.com",
			expected: "https://nexus.example.com",
		},
		{
			name:     "trailing slash stripped",
			input:    "https://nexus.example.com/",
			expected: "https://nexus.example.com",
		},
		{
			name:     "http preserved",
			input:    "http://localhost:8080",
			expected: "http://localhost:8080",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeEndpoint(tt.input)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRedactedConfig(t *testing.T) {
	config := &Config{
		Profiles: map[string]*ProfileConfig{
			"prod": {URL: "https://nexus.test", Token: "secret"},
			"dev":  {URL: "https://dev.nexus.test"},
		},
	}

	redacted := redactedConfig(config)

	assert.Equal(t, "[REDACTED]", redacted.Profiles["prod"].Token)
	assert.Empty(t, redacted.Profiles["dev"].Token)

	// The original is untouched
	assert.Equal(t, "secret", config.Profiles["prod"].Token)
}

func TestParseProfile(t *testing.T) {
	profile := parseProfile(map[string]interface{}{
		"url":                  "https://nexus.test",
		"token":                "abc",
		"default_organization": "bbp",
	})

	assert.Equal(t, "https://nexus.test", profile.URL)
	assert.Equal(t, "abc", profile.Token)
	assert.Equal(t, "bbp", profile.DefaultOrganization)
}
