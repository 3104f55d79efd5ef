package commands

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/nexus-tools/nexus-cli/pkg/nexus"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewProfilesCommand creates the profiles command group.
func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "Manage catalog deployment profiles",
		Long:    "Add, list, select, and remove catalog deployment profiles",
	}

	cmd.AddCommand(newProfilesAddCommand())
	cmd.AddCommand(newProfilesListCommand())
	cmd.AddCommand(newProfilesSelectCommand())
	cmd.AddCommand(newProfilesCurrentCommand())
	cmd.AddCommand(newProfilesRemoveCommand())

	return cmd
}

func newProfilesAddCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "add NAME URL",
		Short: "Add a new deployment profile",
		Long:  "Add a new catalog deployment profile to the configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			endpoint, err := normalizeEndpoint(args[1])
			if err != nil {
				return fmt.Errorf("invalid URL: %w", err)
			}

			config := loadConfig()

			if config.Profiles == nil {
				config.Profiles = make(map[string]*ProfileConfig)
			}

			if _, exists := config.Profiles[name]; exists {
				return fmt.Errorf("%w: '%s'", nexus.ErrProfileExists, name)
			}

			config.Profiles[name] = &ProfileConfig{
				URL:   endpoint,
				Token: token,
			}

			// First profile becomes the current one
			if config.CurrentProfile == "" {
				config.CurrentProfile = name
				fmt.Printf("Profile '%s' (%s) added and selected\n", name, endpoint)
			} else {
				fmt.Printf("Profile '%s' (%s) added\n", name, endpoint)
			}

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token for this deployment")

	return cmd
}

func newProfilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all deployment profiles",
		Long:  "Display all configured catalog deployment profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if len(config.Profiles) == 0 {
				fmt.Println("No profiles configured. Use 'nxs profiles add' to add one.")

				return nil
			}

			output := viper.GetString("output")
			switch output {
			case "json":
				type ProfileInfo struct {
					Name                string `json:"name"`
					URL                 string `json:"url"`
					DefaultOrganization string `json:"default_organization,omitempty"`
					Current             bool   `json:"current"`
				}

				var profiles []ProfileInfo
				for name, profile := range config.Profiles {
					profiles = append(profiles, ProfileInfo{
						Name:                name,
						URL:                 profile.URL,
						DefaultOrganization: profile.DefaultOrganization,
						Current:             name == config.CurrentProfile,
					})
				}

				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(profiles)

			case "yaml":
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(redactedConfig(config).Profiles)

			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "URL", "Default Organization", "Current")

				for name, profile := range config.Profiles {
					current := ""
					if name == config.CurrentProfile {
						current = "*"
					}

					_ = table.Append(name, profile.URL, formatConfigValue(profile.DefaultOrganization), current)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			}
		},
	}
}

func newProfilesSelectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select NAME",
		Short: "Select a deployment profile",
		Long:  "Set the named profile as the current deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			config := loadConfig()

			if _, exists := config.Profiles[name]; !exists {
				return fmt.Errorf("%w: '%s'", nexus.ErrProfileNotFound, name)
			}

			config.CurrentProfile = name

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Now using profile '%s'\n", name)

			return nil
		},
	}
}

func newProfilesCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current deployment profile",
		Long:  "Display the currently selected catalog deployment profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := NewProfileStore()

			name, profile, err := store.Current()
			if err != nil {
				return err
			}

			fmt.Printf("Current profile: %s\n", name)
			fmt.Printf("  URL: %s\n", profile.URL)

			if profile.DefaultOrganization != "" {
				fmt.Printf("  Default organization: %s\n", profile.DefaultOrganization)
			}

			return nil
		},
	}
}

func newProfilesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a deployment profile",
		Long:  "Remove the named profile from the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			config := loadConfig()

			if _, exists := config.Profiles[name]; !exists {
				return fmt.Errorf("%w: '%s'", nexus.ErrProfileNotFound, name)
			}

			delete(config.Profiles, name)

			if config.CurrentProfile == name {
				config.CurrentProfile = ""
			}

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Profile '%s' removed\n", name)

			return nil
		},
	}
}

// normalizeEndpoint validates a deployment URL and strips any trailing slash.
func normalizeEndpoint(endpoint string) (string, error) {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("URL has no host: %s", endpoint)
	}

	return strings.TrimRight(endpoint, "/"), nil
}
