package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	docsync "github.com/goliatone/go-docsync"
	"github.com/goliatone/go-docsync/internal/docs"
)

func (c *cli) getCommand() *cobra.Command {
	var warm bool
	cmd := &cobra.Command{
		Use:   "get [PATH]",
		Short: "Print a rendered page as JSON",
		Long:  "Print a rendered page as JSON. An empty path or a folder resolves to its README.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}

			module, err := c.open()
			if err != nil {
				return err
			}
			defer module.Close()
			if err := c.warmUp(cmd.Context(), cmd, module, warm); err != nil {
				return err
			}

			page, err := module.Docs().Get(cmd.Context(), path)
			if err != nil {
				if docsync.IsNotFound(err) {
					return fmt.Errorf("document not found: %s", docs.NormalizePath(path))
				}
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	addWarmFlag(cmd, &warm)
	return cmd
}

type searchOutput struct {
	Query   string                 `json:"query"`
	Results []docsync.SearchResult `json:"results"`
}

func (c *cli) searchCommand() *cobra.Command {
	var warm bool
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search titles and content, printing matches as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			module, err := c.open()
			if err != nil {
				return err
			}
			defer module.Close()
			if err := c.warmUp(cmd.Context(), cmd, module, warm); err != nil {
				return err
			}

			results, err := module.Docs().Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if results == nil {
				results = []docsync.SearchResult{}
			}
			return writeJSON(cmd.OutOrStdout(), searchOutput{Query: query, Results: results})
		},
	}
	addWarmFlag(cmd, &warm)
	return cmd
}

func (c *cli) navCommand() *cobra.Command {
	var warm bool
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Print the navigation tree as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := c.open()
			if err != nil {
				return err
			}
			defer module.Close()
			if err := c.warmUp(cmd.Context(), cmd, module, warm); err != nil {
				return err
			}

			tree, err := module.Docs().Navigation(cmd.Context())
			if err != nil {
				return err
			}
			if tree == nil {
				tree = docsync.NavigationTree{}
			}
			return writeJSON(cmd.OutOrStdout(), tree)
		},
	}
	addWarmFlag(cmd, &warm)
	return cmd
}

func addWarmFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "sync", false, "sync before reading (always on for the memory store)")
}
