package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewOrgsCommand creates the orgs command group.
func NewOrgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"org", "organizations"},
		Short:   "Manage organizations",
		Long:    "Fetch, create, update, list, deprecate, and select organizations",
	}

	cmd.AddCommand(newOrgsFetchCommand())
	cmd.AddCommand(newOrgsCreateCommand())
	cmd.AddCommand(newOrgsUpdateCommand())
	cmd.AddCommand(newOrgsListCommand())
	cmd.AddCommand(newOrgsDeprecateCommand())
	cmd.AddCommand(newOrgsSelectCommand())
	cmd.AddCommand(newOrgsCurrentCommand())

	return cmd
}

func newOrgsFetchCommand() *cobra.Command {
	var (
		revision int
		pretty   bool
	)

	cmd := &cobra.Command{
		Use:   "fetch LABEL",
		Short: "Fetch an organization",
		Long:  "Fetch an organization, optionally at a specific revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(NewProfileStore())
			if err != nil {
				return err
			}

			resource, err := client.Organizations().Fetch(cmd.Context(), args[0], revision)
			if err != nil {
				return renderOrgError(err)
			}

			return renderResource(resource, pretty)
		},
	}

	cmd.Flags().IntVarP(&revision, "revision", "r", 0, "Fetch the organization at a specific revision")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Colorize JSON output")

	return cmd
}

func newOrgsCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		jsonOnly    bool
		pretty      bool
	)

	cmd := &cobra.Command{
		Use:   "create LABEL",
		Short: "Create a new organization",
		Long:  "Create a new organization with the given label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(NewProfileStore())
			if err != nil {
				return err
			}

			resource, err := client.Organizations().Create(cmd.Context(), args[0], name, description)
			if err != nil {
				return renderOrgError(err)
			}

			fmt.Printf("Organization created (id: %s)\n", resource.ID)

			if jsonOnly {
				return renderResource(resource, pretty)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the organization (if different from its label)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the organization")
	cmd.Flags().BoolVarP(&jsonOnly, "json-only", "j", false, "Print the JSON payload returned by the service")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Colorize JSON output")

	return cmd
}

// OrganizationUpdateInput carries the mutation sources for an update. A raw
// payload replaces the whole document and takes precedence over the field
// overrides. With neither, the caller's edit provider decides.
type OrganizationUpdateInput struct {
	Payload     []byte
	Name        *string
	Description *string
}

func newOrgsUpdateCommand() *cobra.Command {
	var (
		payload     string
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update LABEL",
		Short: "Update an organization",
		Long:  "Update an organization from a payload, field overrides, or an editor session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(NewProfileStore())
			if err != nil {
				return err
			}

			input := OrganizationUpdateInput{}
			if cmd.Flags().Changed("data") {
				input.Payload = []byte(payload)
			}

			if cmd.Flags().Changed("name") {
				input.Name = &name
			}

			if cmd.Flags().Changed("description") {
				input.Description = &description
			}

			updated, err := applyOrganizationUpdate(cmd.Context(), client.Organizations(), args[0], input, NewEditorProvider())
			if err != nil {
				return renderOrgError(err)
			}

			if updated {
				fmt.Println("Organization updated.")
			} else {
				fmt.Println("No change in organization, aborting update.")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&payload, "data", "", "The new payload for the organization")
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name for the organization")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description for the organization")

	return cmd
}

// applyOrganizationUpdate runs the fetch, compare, and conditionally submit
// cycle for an organization. It returns true when a replacement revision was
// written and false when the document was unchanged.
func applyOrganizationUpdate(ctx context.Context, orgs nexus.OrganizationsClient, label string, input OrganizationUpdateInput, edit EditProvider) (bool, error) {
	resource, err := orgs.Fetch(ctx, label, 0)
	if err != nil {
		return false, err
	}

	currentRev := resource.Rev
	fields := resource.ToMap()

	before, err := nexus.Fingerprint(fields)
	if err != nil {
		return false, fmt.Errorf("failed to fingerprint organization: %w", err)
	}

	candidate, err := buildUpdateCandidate(fields, input, edit)
	if err != nil {
		return false, err
	}

	after, err := nexus.Fingerprint(candidate)
	if err != nil {
		return false, fmt.Errorf("failed to fingerprint update: %w", err)
	}

	if before == after {
		return false, nil
	}

	replacement := nexus.FromMap(candidate)
	if replacement.Label == "" {
		replacement.Label = label
	}

	_, err = orgs.Update(ctx, &replacement, currentRev)
	if err != nil {
		return false, err
	}

	return true, nil
}

func buildUpdateCandidate(fields map[string]interface{}, input OrganizationUpdateInput, edit EditProvider) (map[string]interface{}, error) {
	switch {
	case len(input.Payload) > 0:
		var candidate map[string]interface{}
		if err := json.Unmarshal(input.Payload, &candidate); err != nil {
			return nil, fmt.Errorf("failed to parse payload: %w", err)
		}

		return candidate, nil

	case input.Name != nil || input.Description != nil:
		candidate := make(map[string]interface{}, len(fields))
		for key, value := range fields {
			candidate[key] = value
		}

		if input.Name != nil {
			candidate[nexus.FieldName] = *input.Name
		}

		if input.Description != nil {
			candidate[nexus.FieldDescription] = *input.Description
		}

		return candidate, nil

	default:
		original, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal organization: %w", err)
		}

		edited, err := edit.Edit(original)
		if err != nil {
			return nil, err
		}

		var candidate map[string]interface{}
		if err := json.Unmarshal(edited, &candidate); err != nil {
			return nil, fmt.Errorf("failed to parse edited document: %w", err)
		}

		return candidate, nil
	}
}

func newOrgsListCommand() *cobra.Command {
	var (
		jsonOnly bool
		pretty   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all organizations",
		Long:  "Display all organizations of the current deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(NewProfileStore())
			if err != nil {
				return err
			}

			list, err := client.Organizations().List(cmd.Context())
			if err != nil {
				return renderOrgError(err)
			}

			if jsonOnly {
				data, err := json.Marshal(list)
				if err != nil {
					return fmt.Errorf("failed to marshal organization list: %w", err)
				}

				printDocument(data, pretty)

				return nil
			}

			output := viper.GetString("output")
			switch output {
			case "json":
				return StandardJSONRenderer[*nexus.OrganizationList]{}.Render(list)
			case "yaml":
				return StandardYAMLRenderer[*nexus.OrganizationList]{}.Render(list)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "Description", "Id", "Deprecated")

				for i := range list.Results {
					org := &list.Results[i]
					_ = table.Append(org.Label, org.Description, org.ID, strconv.FormatBool(org.Deprecated))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				printTotal(os.Stdout, list.Total)

				return nil
			}
		},
	}

	cmd.Flags().BoolVarP(&jsonOnly, "json-only", "j", false, "Print the JSON payload returned by the service")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Colorize JSON output")

	return cmd
}

func newOrgsDeprecateCommand() *cobra.Command {
	var (
		jsonOnly bool
		pretty   bool
	)

	cmd := &cobra.Command{
		Use:   "deprecate LABEL",
		Short: "Deprecate an organization",
		Long:  "Mark an organization as deprecated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(NewProfileStore())
			if err != nil {
				return err
			}

			label := args[0]

			resource, err := client.Organizations().Fetch(cmd.Context(), label, 0)
			if err != nil {
				return renderOrgError(err)
			}

			deprecated, err := client.Organizations().Deprecate(cmd.Context(), label, resource.Rev)
			if err != nil {
				return renderOrgError(err)
			}

			if jsonOnly {
				if err := renderResource(deprecated, pretty); err != nil {
					return err
				}
			}

			fmt.Printf("Organization '%s' was deprecated.\n", label)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOnly, "json-only", "j", false, "Print the JSON payload returned by the service")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Colorize JSON output")

	return cmd
}

func newOrgsSelectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select LABEL",
		Short: "Select a default organization",
		Long:  "Verify the organization exists and store it as the profile default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := NewProfileStore()

			client, err := CreateClient(store)
			if err != nil {
				return err
			}

			label := args[0]

			if err := selectOrganization(cmd.Context(), client.Organizations(), store, label); err != nil {
				return err
			}

			fmt.Println("organization selected.")

			return nil
		},
	}
}

// selectOrganization verifies the organization exists before persisting it
// as the profile default. A missing organization leaves the stored default
// untouched.
func selectOrganization(ctx context.Context, orgs nexus.OrganizationsClient, store ProfileStore, label string) error {
	_, err := orgs.Fetch(ctx, label, 0)
	if err != nil {
		if nexus.IsNotFound(err) {
			return fmt.Errorf("could not find organization with label '%s'", label)
		}

		return renderOrgError(err)
	}

	return store.SetDefaultOrganization(label)
}

func newOrgsCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the currently selected organization",
		Long:  "Display the default organization of the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			label, err := NewProfileStore().DefaultOrganization()
			if err != nil {
				return err
			}

			fmt.Println(label)

			return nil
		},
	}
}

// renderResource prints a single resource in the selected output format.
func renderResource(resource *nexus.Resource, pretty bool) error {
	output := viper.GetString("output")
	switch output {
	case "yaml":
		return StandardYAMLRenderer[*nexus.Resource]{}.Render(resource)
	default:
		data, err := json.Marshal(resource)
		if err != nil {
			return fmt.Errorf("failed to marshal resource: %w", err)
		}

		printDocument(data, pretty)

		return nil
	}
}

// printDocument pretty-prints a JSON document, colorized when requested.
func printDocument(data []byte, pretty bool) {
	if pretty {
		PrintJSONColored(os.Stdout, data, color.FgCyan)

		return
	}

	PrintJSON(data)
}

// renderOrgError dumps the raw error body returned by the service before
// surfacing the error itself.
func renderOrgError(err error) error {
	if body := nexus.ErrorBody(err); len(body) > 0 {
		PrintJSONColored(os.Stdout, body, color.FgRed)
	}

	return err
}
