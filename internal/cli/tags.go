package cli

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag commands",
	}
	cmd.AddCommand(newTagsListCmd(app))
	cmd.AddCommand(newTagsAddCmd(app))
	cmd.AddCommand(newTagsRmCmd(app))
	cmd.AddCommand(newTagsSuggestCmd(app))
	return cmd
}

func newTagsListCmd(app *App) *cobra.Command {
	var (
		search  string
		page    int
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			params := url.Values{}
			if search != "" {
				params.Set("search", search)
			}
			if page > 0 {
				params.Set("page", strconv.Itoa(page))
			}
			if perPage > 0 {
				params.Set("per_page", strconv.Itoa(perPage))
			}
			result, err := client.ListTags(cmd.Context(), params)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": result})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Filter tags by name")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (server default: 1)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Page size (server default: 100)")
	return cmd
}

func newTagsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			tag, err := client.CreateTag(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tag})
		},
	}
}

func newTagsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <tag-id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return writeErr(cmd, errInvalidID("tag", args[0]))
			}
			if err := client.DeleteTag(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}

func newTagsSuggestCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Autocomplete tag names for a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			names, err := client.AutocompleteTags(cmd.Context(), args[0], limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if names == nil {
				names = []string{}
			}
			return writeOut(cmd, app, map[string]any{"data": names})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum suggestions")
	return cmd
}
