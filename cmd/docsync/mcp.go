package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	docsync "github.com/goliatone/go-docsync"
	"github.com/goliatone/go-docsync/internal/adapters/noop"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/mcpserver"
)

type mcpFlags struct {
	transport string
	addr      string
	endpoint  string
	warm      bool
}

func (c *cli) mcpCommand() *cobra.Command {
	var flags mcpFlags
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve documents, search and navigation as MCP tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runMCP(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.transport, "transport", mcpserver.TransportStdio, "transport: stdio or http")
	cmd.Flags().StringVar(&flags.addr, "addr", mcpserver.DefaultAddr, "listen address for the http transport")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", mcpserver.DefaultEndpoint, "endpoint path for the http transport")
	addWarmFlag(cmd, &flags.warm)
	return cmd
}

func (c *cli) runMCP(cmd *cobra.Command, flags mcpFlags) error {
	var opts []docsync.Option
	stdio := strings.TrimSpace(flags.transport) == "" || strings.EqualFold(flags.transport, mcpserver.TransportStdio)
	if stdio {
		// stdout carries the protocol.
		opts = append(opts, docsync.WithLoggerProvider(noop.LoggerProvider()))
	}

	module, err := c.open(opts...)
	if err != nil {
		return err
	}
	defer module.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.warmUp(ctx, cmd, module, flags.warm); err != nil {
		return err
	}

	return mcpserver.Serve(ctx, module.MCPServer(), mcpserver.ServeOptions{
		Transport: flags.transport,
		Addr:      flags.addr,
		Endpoint:  flags.endpoint,
		Stdin:     cmd.InOrStdin(),
		Stdout:    cmd.OutOrStdout(),
		Logger:    logging.MCPLogger(module.Container().LoggerProvider()),
	})
}
