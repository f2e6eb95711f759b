package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-command/cron"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	docsync "github.com/goliatone/go-docsync"
	"github.com/goliatone/go-docsync/commands"
	docscmd "github.com/goliatone/go-docsync/internal/commands/docs"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/internal/mcpserver"
)

type serveFlags struct {
	addr        string
	endpoint    string
	expression  string
	syncOnStart bool
}

func (c *cli) serveCommand() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled syncs and expose metrics and MCP over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runServe(ctx, cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "listen address for /metrics and the MCP endpoint")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", mcpserver.DefaultEndpoint, "MCP endpoint path")
	cmd.Flags().StringVar(&flags.expression, "cron", "", "sync schedule (defaults to commands.cron_expression)")
	cmd.Flags().BoolVar(&flags.syncOnStart, "sync-on-start", true, "run one sync pass before scheduling")
	return cmd
}

func (c *cli) runServe(ctx context.Context, cmd *cobra.Command, flags serveFlags) error {
	c.cfg.Commands.CronEnabled = true
	if flags.expression != "" {
		c.cfg.Commands.CronExpression = flags.expression
	}

	module, err := c.open()
	if err != nil {
		return err
	}
	defer module.Close()

	logger := logging.CommandsLogger(module.Container().LoggerProvider())

	scheduler := cron.NewScheduler()
	registration, err := module.RegisterCommands(commands.RegistrationOptions{
		CronRegistrar: docscmd.SchedulerRegistrar(scheduler),
	})
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}

	if flags.syncOnStart && registration.Docs != nil && registration.Docs.Sync != nil {
		if err := registration.Docs.Sync.Execute(ctx, docscmd.SyncDocumentationCommand{}); err != nil {
			logger.Error("docs.serve.initial_sync_failed", "error", err)
		}
	}

	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer scheduler.Stop(context.WithoutCancel(ctx))

	srv := &http.Server{
		Addr:              flags.addr,
		Handler:           newServeMux(module, flags.endpoint),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving metrics and MCP on %s (schedule %s)\n", flags.addr, c.cfg.Commands.CronExpression)
	logger.Info("docs.serve.listening", "addr", flags.addr, "cron", c.cfg.Commands.CronExpression)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func newServeMux(module *docsync.Module, endpoint string) *http.ServeMux {
	if endpoint == "" {
		endpoint = mcpserver.DefaultEndpoint
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", module.MetricsHandler())
	mux.Handle(endpoint, mcpserver.NewHTTPHandler(module.MCPServer(), endpoint))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
