package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	docsync "github.com/goliatone/go-docsync"
	docscmd "github.com/goliatone/go-docsync/internal/commands/docs"
	"github.com/goliatone/go-docsync/internal/fetcher"
)

type syncFlags struct {
	force   bool
	local   bool
	path    string
	shallow bool
}

func (c *cli) syncCommand() *cobra.Command {
	var flags syncFlags
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync documentation from GitHub or a local directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runSync(cmd, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.force, "force", false, "clear stored documents and the navigation cache first")
	cmd.Flags().BoolVar(&flags.local, "local", false, "sync from the configured local directory instead of GitHub")
	cmd.Flags().StringVar(&flags.path, "path", "", "sync from this local directory (implies --local)")
	cmd.Flags().BoolVar(&flags.shallow, "shallow", false, "list only the docs root")
	return cmd
}

func (c *cli) runSync(cmd *cobra.Command, flags syncFlags) error {
	msg := docscmd.SyncDocumentationCommand{
		Force:   flags.force,
		Local:   flags.local || flags.path != "",
		Path:    flags.path,
		Shallow: flags.shallow || c.cfg.Source.Shallow,
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	module, err := c.open()
	if err != nil {
		return err
	}
	defer module.Close()

	source, err := module.Container().SyncSourceResolver()(msg)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if msg.Force {
		fmt.Fprintln(stderr, "Clearing existing documentation...")
	}
	if msg.Local {
		dir := c.cfg.Source.LocalPath
		if local, ok := source.(*fetcher.LocalSource); ok && local.Origin() != "" {
			dir = local.Origin()
		}
		fmt.Fprintf(stderr, "Syncing documentation from local: %s\n", dir)
	} else {
		fmt.Fprintf(stderr, "Syncing documentation from GitHub: %s@%s\n", c.cfg.Source.Repo, c.cfg.Source.Branch)
	}

	result, err := module.Docs().Sync(cmd.Context(), docsync.SyncOptions{
		Force:   msg.Force,
		Source:  source,
		Shallow: msg.Shallow,
	})
	if err != nil {
		return err
	}

	printSyncResult(cmd.OutOrStdout(), result)
	reportFailures(stderr, result)
	return nil
}

func printSyncResult(w io.Writer, result docsync.SyncResult) {
	if len(result.Changed) == 0 {
		fmt.Fprintln(w, "Documentation is already up to date.")
		return
	}
	fmt.Fprintf(w, "Synced %d documentation pages:\n", len(result.Changed))
	for _, path := range result.Changed {
		fmt.Fprintf(w, "  - %s\n", path)
	}
}

// reportFailures lists what a partial pass left behind. A partial pass
// still exits zero.
func reportFailures(w io.Writer, result docsync.SyncResult) {
	for _, path := range result.Failed {
		fmt.Fprintf(w, "warning: failed to sync %s\n", path)
	}
	for _, dir := range result.FailedSubtrees {
		fmt.Fprintf(w, "warning: failed to list %s\n", dir)
	}
}
