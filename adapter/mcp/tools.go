package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	if err := registerCoreTools(srv, deps); err != nil {
		return err
	}
	if err := registerAvailabilityTools(srv, deps); err != nil {
		return err
	}
	if err := registerSuggestionTools(srv, deps); err != nil {
		return err
	}
	if err := registerHangoutTools(srv, deps); err != nil {
		return err
	}
	if err := registerProfileTools(srv, deps); err != nil {
		return err
	}
	if err := registerCalendarTools(srv, deps); err != nil {
		return err
	}

	return nil
}
