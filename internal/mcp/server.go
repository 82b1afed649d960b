package mcp

import (
	"context"
	"errors"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	mcplocal "github.com/felixgeelhaar/rendezvous/adapter/mcp"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

const serverName = "rendezvous-mcp"

// NewServer builds the MCP server with every rendezvous tool, resource and
// prompt registered against cliApp.
func NewServer(cliApp *cli.App, logger *slog.Logger) (*mcpgo.Server, error) {
	if cliApp == nil {
		return nil, errors.New("CLI app is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    serverName,
		Version: cli.Version,
		Capabilities: mcpgo.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})

	deps := mcplocal.ToolDependencies{App: cliApp}
	if err := mcplocal.RegisterCLITools(srv, deps); err != nil {
		return nil, err
	}
	// Resources and prompts only add context for the client; tools still work without them.
	if err := mcplocal.RegisterResources(srv, deps); err != nil {
		logger.Warn("mcp resources unavailable", "error", err)
	}
	if err := mcplocal.RegisterPrompts(srv, deps); err != nil {
		logger.Warn("mcp prompts unavailable", "error", err)
	}
	return srv, nil
}

// Serve listens on cfg.MCPAddr until ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, cliApp *cli.App, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := NewServer(cliApp, logger)
	if err != nil {
		return err
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr, "user_id", cliApp.CurrentUserID)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(middlewareStack(cfg.MCPAuthToken, logger)...))
}

// middlewareStack puts bearer-token auth in front of the default stack
// when a token is configured.
func middlewareStack(token string, logger *slog.Logger) []middleware.Middleware {
	log := fieldLogger{logger: logger}
	stack := middleware.DefaultStack(log)
	if token == "" {
		logger.Warn("MCP_AUTH_TOKEN not set; requests are unauthenticated")
		return stack
	}
	auth := middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
		token: {ID: "rendezvous", Name: "rendezvous"},
	}))
	return append([]middleware.Middleware{middleware.Auth(auth, middleware.WithAuthLogger(log))}, stack...)
}

// fieldLogger adapts slog to the middleware logger interface.
type fieldLogger struct {
	logger *slog.Logger
}

func (l fieldLogger) Debug(msg string, fields ...middleware.Field) {
	l.logger.Debug(msg, args(fields)...)
}

func (l fieldLogger) Info(msg string, fields ...middleware.Field) {
	l.logger.Info(msg, args(fields)...)
}

func (l fieldLogger) Warn(msg string, fields ...middleware.Field) {
	l.logger.Warn(msg, args(fields)...)
}

func (l fieldLogger) Error(msg string, fields ...middleware.Field) {
	l.logger.Error(msg, args(fields)...)
}

func args(fields []middleware.Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}
