package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	DefaultEndpoint = "/mcp"
	DefaultAddr     = ":8090"
)

// ErrUnknownTransport is returned for a transport other than stdio or http.
var ErrUnknownTransport = errors.New("mcpserver: unknown transport")

// ServeOptions selects how the server is exposed.
type ServeOptions struct {
	Transport string
	Addr      string
	Endpoint  string
	Stdin     io.Reader
	Stdout    io.Writer
	Logger    interfaces.Logger
}

type httpRequestKey struct{}

// HTTPRequestFromContext returns the request that carried a streamable-HTTP
// tool call.
func HTTPRequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

func httpContextFunc(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

// NewHTTPHandler exposes s over streamable HTTP at endpoint.
func NewHTTPHandler(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
		server.WithHTTPContextFunc(httpContextFunc),
	)
}

// Serve blocks until ctx is cancelled or the transport fails.
func Serve(ctx context.Context, s *server.MCPServer, opts ServeOptions) error {
	transport := strings.ToLower(strings.TrimSpace(opts.Transport))
	switch transport {
	case "", TransportStdio:
		stdin, stdout := opts.Stdin, opts.Stdout
		if stdin == nil {
			stdin = os.Stdin
		}
		if stdout == nil {
			stdout = os.Stdout
		}
		return server.NewStdioServer(s).Listen(ctx, stdin, stdout)
	case TransportHTTP:
		return serveHTTP(ctx, s, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransport, opts.Transport)
	}
}

func serveHTTP(ctx context.Context, s *server.MCPServer, opts ServeOptions) error {
	addr := opts.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	httpServer := NewHTTPHandler(s, opts.Endpoint)
	if opts.Logger != nil {
		opts.Logger.Info("docs.mcp.http_listening", "addr", addr, "endpoint", opts.Endpoint)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
