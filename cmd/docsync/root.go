package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	docsync "github.com/goliatone/go-docsync"
	"github.com/goliatone/go-docsync/internal/runtimeconfig"
)

// moduleBuilder is swapped in tests.
var moduleBuilder = docsync.New

type cli struct {
	v          *viper.Viper
	configFile string
	cfg        docsync.Config
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:          "docsync",
		Short:        "Sync, render and serve Markdown documentation",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(c.v, c.configFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configFile, "config", "c", "", "config file (default docsync.yaml in . or $HOME/.docsync)")
	flags.String("source", "", "documentation source: github or local")
	flags.String("store", "", "document store driver: memory, sqlite or postgres")
	flags.String("dsn", "", "document store connection string")
	flags.String("log-provider", "", "logging provider: noop or gologger")
	flags.String("log-level", "", "logging level")

	_ = c.v.BindPFlag("source.provider", flags.Lookup("source"))
	_ = c.v.BindPFlag("store.driver", flags.Lookup("store"))
	_ = c.v.BindPFlag("store.dsn", flags.Lookup("dsn"))
	_ = c.v.BindPFlag("logging.provider", flags.Lookup("log-provider"))
	_ = c.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	root.AddCommand(
		c.syncCommand(),
		c.getCommand(),
		c.searchCommand(),
		c.navCommand(),
		c.mcpCommand(),
		c.serveCommand(),
	)
	return root
}

// open builds a module from the resolved config. Callers close it.
func (c *cli) open(opts ...docsync.Option) (*docsync.Module, error) {
	module, err := moduleBuilder(c.cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, nil
}

// memoryStore reports whether documents vanish between invocations.
func (c *cli) memoryStore() bool {
	driver := strings.ToLower(strings.TrimSpace(c.cfg.Store.Driver))
	return driver == "" || driver == runtimeconfig.StoreMemory
}

// warmUp runs a sync pass before a read when asked to, or when the store
// starts empty on every run.
func (c *cli) warmUp(ctx context.Context, cmd *cobra.Command, module *docsync.Module, requested bool) error {
	if !requested && !c.memoryStore() {
		return nil
	}
	result, err := module.Docs().Sync(ctx, docsync.SyncOptions{})
	if err != nil {
		return fmt.Errorf("sync documentation: %w", err)
	}
	reportFailures(cmd.ErrOrStderr(), result)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
