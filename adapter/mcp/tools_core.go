package mcp

import (
	"context"
	"errors"
	"runtime"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

type statusOutput struct {
	Status    string `json:"status"`
	UserID    string `json:"user_id"`
	LocalZone string `json:"local_zone"`
}

type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Go        string `json:"go"`
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("rendezvous.status").
		Description("Report which user the server acts for and the host time zone").
		Handler(func(ctx context.Context, input struct{}) (*statusOutput, error) {
			if app == nil {
				return nil, errors.New("app not initialized")
			}
			return &statusOutput{
				Status:    "ok",
				UserID:    app.CurrentUserID.String(),
				LocalZone: timezone.Local(),
			}, nil
		})

	srv.Tool("rendezvous.version").
		Description("Build information for the running server").
		Handler(func(ctx context.Context, input struct{}) (*versionOutput, error) {
			return &versionOutput{
				Version:   cli.Version,
				Commit:    cli.Commit,
				BuildDate: cli.BuildDate,
				Go:        runtime.Version(),
			}, nil
		})

	return nil
}
