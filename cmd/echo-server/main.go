// Command echo-server is a stdio MCP server exposing a single "echo" tool.
// It reads newline-delimited JSON-RPC from stdin, writes responses to stdout,
// and logs to stderr. It runs until stdin is closed, then exits 0.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeshaw/envdecode"
	"github.com/trstroem/mcp-echo-server/mcp"
	"github.com/trstroem/mcp-echo-server/mcpservice"
	"github.com/trstroem/mcp-echo-server/stdio"
)

type config struct {
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	ServerName    string `env:"MCP_SERVER_NAME,default=echo-server"`
	ServerVersion string `env:"MCP_SERVER_VERSION,default=1.0.0"`
}

// echoArgs is the typed input of the echo tool; its JSON schema is reflected
// into the tools/list descriptor.
type echoArgs struct {
	Message string `json:"message" jsonschema:"description=The message to echo back"`
}

func main() {
	var cfg config
	if err := envdecode.Decode(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := stdio.NewHandler(newServer(cfg), stdio.WithLogger(log))
	if err := h.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("serve failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

// newServer wires the echo tool into a server with the configured identity.
func newServer(cfg config) *mcpservice.Server {
	echo := mcpservice.TypedTool("echo",
		func(ctx context.Context, args echoArgs) (*mcp.CallToolResult, error) {
			return mcpservice.TextResult("Echo: " + args.Message), nil
		},
		mcpservice.WithToolDescription("Echoes back the provided message. Use this to test MCP connectivity."),
	)

	return mcpservice.NewServer(
		mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: cfg.ServerName, Version: cfg.ServerVersion}),
		mcpservice.WithTools(mcpservice.NewStaticTools(echo)),
	)
}

// newLogger builds the process logger. Stdout carries the wire protocol, so
// diagnostics always go to stderr.
func newLogger(cfg config) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.LogFormat {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unknown LOG_FORMAT %q (want text or json)", cfg.LogFormat)
	}
}
