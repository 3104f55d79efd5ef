package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nexus-tools/nexus-cli/internal/constants"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	// Deployment profiles keyed by name
	Profiles       map[string]*ProfileConfig `json:"profiles,omitempty"        yaml:"profiles,omitempty"`
	CurrentProfile string                    `json:"current_profile,omitempty" yaml:"current_profile,omitempty"`

	// Global settings
	Output  string `json:"output"   yaml:"output"`
	NoColor bool   `json:"no_color" yaml:"no_color"`

	// Optional response cache settings
	CacheType string `json:"cache_type,omitempty" yaml:"cache_type,omitempty"`
	CacheNATS string `json:"cache_nats,omitempty" yaml:"cache_nats,omitempty"`

	// Transport retries, disabled unless set
	RetryMax int `json:"retry_max,omitempty" yaml:"retry_max,omitempty"`
}

// ProfileConfig represents one catalog deployment profile.
type ProfileConfig struct {
	URL                 string `json:"url"                            yaml:"url"`
	Token               string `json:"token,omitempty"                yaml:"token,omitempty"`
	DefaultOrganization string `json:"default_organization,omitempty" yaml:"default_organization,omitempty"`
}

// ProfileStore is the persistent profile state consumed by commands. It is
// injected explicitly so command logic never reads ambient globals and tests
// can substitute an in-memory store.
type ProfileStore interface {
	// Current returns the active profile name and its configuration.
	Current() (string, *ProfileConfig, error)

	// DefaultOrganization returns the default organization of the active profile.
	DefaultOrganization() (string, error)

	// SetDefaultOrganization persists label as the active profile's default.
	SetDefaultOrganization(label string) error
}

// fileProfileStore is the viper/yaml-backed ProfileStore used by the CLI.
type fileProfileStore struct{}

// NewProfileStore returns the file-backed profile store.
func NewProfileStore() ProfileStore {
	return &fileProfileStore{}
}

// Current implements ProfileStore.Current. The --profile flag overrides the
// persisted selection.
func (s *fileProfileStore) Current() (string, *ProfileConfig, error) {
	config := loadConfig()

	name := viper.GetString("profile")
	if name == "" {
		name = config.CurrentProfile
	}

	if name == "" {
		return "", nil, fmt.Errorf("%w, use 'nxs profiles select' first", nexus.ErrNoProfileSelected)
	}

	profile, exists := config.Profiles[name]
	if !exists {
		return "", nil, fmt.Errorf("%w: '%s'", nexus.ErrProfileNotFound, name)
	}

	return name, profile, nil
}

// DefaultOrganization implements ProfileStore.DefaultOrganization.
func (s *fileProfileStore) DefaultOrganization() (string, error) {
	name, profile, err := s.Current()
	if err != nil {
		return "", err
	}

	if profile.DefaultOrganization == "" {
		return "", fmt.Errorf("%w in profile '%s'", nexus.ErrNoDefaultOrganization, name)
	}

	return profile.DefaultOrganization, nil
}

// SetDefaultOrganization implements ProfileStore.SetDefaultOrganization.
func (s *fileProfileStore) SetDefaultOrganization(label string) error {
	name, _, err := s.Current()
	if err != nil {
		return err
	}

	config := loadConfig()
	config.Profiles[name].DefaultOrganization = label

	return saveConfigStruct(config)
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage CLI configuration including profiles and settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(redactedConfig(config))
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(redactedConfig(config))
			default:
				return displayConfigTable(config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a global configuration value (output, no_color, cache_type, cache_nats)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setGlobalConfig(loadConfig(), args[0], args[1])
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Reset a global configuration value to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return unsetGlobalConfig(loadConfig(), args[0])
		},
	}
}

var errUnknownConfigKey = fmt.Errorf("unknown configuration key")

func setGlobalConfig(config *Config, key, value string) error {
	switch key {
	case "output":
		config.Output = value
	case "no_color":
		config.NoColor = value == "true" || value == "1"
	case "cache_type":
		config.CacheType = value
	case "cache_nats":
		config.CacheNATS = value
	case "retry_max":
		retryMax, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("retry_max must be an integer: %w", err)
		}

		config.RetryMax = retryMax
	default:
		return fmt.Errorf("%w: %s", errUnknownConfigKey, key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Set %s\n", key)

	return nil
}

func unsetGlobalConfig(config *Config, key string) error {
	switch key {
	case "output":
		config.Output = constants.FormatTable
	case "no_color":
		config.NoColor = false
	case "cache_type":
		config.CacheType = ""
	case "cache_nats":
		config.CacheNATS = ""
	case "retry_max":
		config.RetryMax = 0
	default:
		return fmt.Errorf("%w: %s", errUnknownConfigKey, key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Unset %s\n", key)

	return nil
}

func loadConfig() *Config {
	config := &Config{
		Profiles:       make(map[string]*ProfileConfig),
		CurrentProfile: viper.GetString("current_profile"),
		Output:         viper.GetString("output"),
		NoColor:        viper.GetBool("no_color"),
		CacheType:      viper.GetString("cache_type"),
		CacheNATS:      viper.GetString("cache_nats"),
		RetryMax:       viper.GetInt("retry_max"),
	}

	profilesRaw := viper.GetStringMap("profiles")
	for name, profileRaw := range profilesRaw {
		if profileMap, ok := profileRaw.(map[string]interface{}); ok {
			config.Profiles[name] = parseProfile(profileMap)
		}
	}

	return config
}

func parseProfile(profileMap map[string]interface{}) *ProfileConfig {
	profile := &ProfileConfig{}

	if urlValue, ok := profileMap["url"].(string); ok {
		profile.URL = urlValue
	}

	if token, ok := profileMap["token"].(string); ok {
		profile.Token = token
	}

	if org, ok := profileMap["default_organization"].(string); ok {
		profile.DefaultOrganization = org
	}

	return profile
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".nexus")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// redactedConfig hides tokens from structured config output.
func redactedConfig(config *Config) *Config {
	clone := *config
	clone.Profiles = make(map[string]*ProfileConfig, len(config.Profiles))

	for name, profile := range config.Profiles {
		p := *profile
		if p.Token != "" {
			p.Token = "[REDACTED]"
		}

		clone.Profiles[name] = &p
	}

	return &clone
}

func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Output", config.Output)
	_ = table.Append("No Color", strconv.FormatBool(config.NoColor))

	if config.CurrentProfile != "" {
		_ = table.Append("Current Profile", config.CurrentProfile)
	}

	if config.CacheType != "" {
		_ = table.Append("Cache", config.CacheType)
	}

	if config.RetryMax > 0 {
		_ = table.Append("Retry Max", strconv.Itoa(config.RetryMax))
	}

	_, _ = os.Stdout.WriteString("Global Configuration:\n")

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return displayProfilesTable(config)
}

func displayProfilesTable(config *Config) error {
	if len(config.Profiles) == 0 {
		_, _ = os.Stdout.WriteString("\nNo profiles configured. Use 'nxs profiles add' to add one.\n")

		return nil
	}

	_, _ = os.Stdout.WriteString("\nConfigured Profiles:\n")

	profileTable := tablewriter.NewWriter(os.Stdout)
	profileTable.Header("Name", "URL", "Default Organization", "Current")

	for name, profile := range config.Profiles {
		current := ""
		if name == config.CurrentProfile {
			current = "*"
		}

		_ = profileTable.Append(name, profile.URL, formatConfigValue(profile.DefaultOrganization), current)
	}

	err := profileTable.Render()
	if err != nil {
		return fmt.Errorf("failed to render profiles table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return "-"
	}

	return value
}
