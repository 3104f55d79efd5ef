package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewContextsCommand creates the contexts command.
func NewContextsCommand() *cobra.Command {
	var (
		list   bool
		search string
	)

	cmd := &cobra.Command{
		Use:   "contexts",
		Short: "Manage catalog contexts",
		Long:  "List and search the JSON-LD contexts registered in the current deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := NewProfileStore()

			name, _, err := store.Current()
			if err != nil {
				return err
			}

			client, err := CreateClient(store)
			if err != nil {
				return err
			}

			if list {
				err := listContexts(cmd.Context(), client.Contexts(), name, os.Stdout)
				if err != nil {
					return renderContextsError(err)
				}
			}

			if search != "" {
				err := searchContexts(cmd.Context(), client.Contexts(), search, os.Stdout)
				if err != nil {
					return renderContextsError(err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List all registered contexts in the selected deployment")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Free text search through contexts")

	return cmd
}

// listContexts walks every collection page and prints one row per context.
func listContexts(ctx context.Context, contexts nexus.ContextsClient, profileName string, out io.Writer) error {
	columnName := fmt.Sprintf("Context (%s)", profileName)

	table := tablewriter.NewWriter(out)
	table.Header(columnName)

	it := contexts.List(ctx)
	for it.HasNext() {
		ref, err := it.Next()
		if err != nil {
			if errors.Is(err, nexus.ErrNoMoreItems) {
				break
			}

			return err
		}

		_ = table.Append(ref.ResultID)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	printTotal(out, it.Count())

	return nil
}

// searchContexts walks the matching pages and fetches each context document,
// printing its payload and the terms it defines.
func searchContexts(ctx context.Context, contexts nexus.ContextsClient, term string, out io.Writer) error {
	it := contexts.Search(ctx, term)
	for it.HasNext() {
		ref, err := it.Next()
		if err != nil {
			if errors.Is(err, nexus.ErrNoMoreItems) {
				break
			}

			return err
		}

		document, err := contexts.Fetch(ctx, ref.ResultID)
		if err != nil {
			return err
		}

		data, err := json.Marshal(document)
		if err != nil {
			return fmt.Errorf("failed to marshal context document: %w", err)
		}

		PrintJSONColored(out, data, color.FgGreen)
		printContextTerms(document, out)
	}

	return nil
}

// printContextTerms prints the term names declared by a context document.
// The '@context' value may be a mapping or a list of mappings and IRIs.
func printContextTerms(document map[string]interface{}, out io.Writer) {
	value, ok := document[nexus.FieldContext]
	if !ok {
		return
	}

	switch typed := value.(type) {
	case map[string]interface{}:
		for term := range typed {
			fmt.Fprintln(out, term)
		}
	case []interface{}:
		for _, entry := range typed {
			switch e := entry.(type) {
			case map[string]interface{}:
				for term := range e {
					fmt.Fprintln(out, term)
				}
			case string:
				fmt.Fprintln(out, e)
			}
		}
	}
}

// renderContextsError dumps the offending payload before surfacing the error.
func renderContextsError(err error) error {
	if body := nexus.ErrorBody(err); len(body) > 0 {
		PrintJSONColored(os.Stdout, body, color.FgRed)
	}

	return err
}
