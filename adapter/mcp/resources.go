package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	availabilityQueries "github.com/felixgeelhaar/rendezvous/internal/availability/application/queries"
	hangoutQueries "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/queries"
)

// RegisterResources registers MCP resources that expose Rendezvous data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("rendezvous://availability").
		Name("Availability").
		Description("Weekly and one-off slots for the current user, with exceptions for the next 30 days").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListAvailabilityHandler == nil {
				return nil, fmt.Errorf("availability listing requires database connection")
			}
			now := time.Now()
			result, err := app.ListAvailabilityHandler.Handle(ctx, availabilityQueries.ListAvailabilityQuery{
				UserID: app.CurrentUserID,
				From:   now.Format(dateLayout),
				To:     now.AddDate(0, 0, 30).Format(dateLayout),
			})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, result)
		})

	srv.Resource("rendezvous://hangouts").
		Name("Hangouts").
		Description("All hangouts the current user organized or was invited to").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListHangoutsHandler == nil {
				return nil, fmt.Errorf("hangout listing requires database connection")
			}
			hangouts, err := app.ListHangoutsHandler.Handle(ctx, hangoutQueries.ListHangoutsQuery{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, hangouts)
		})

	srv.Resource("rendezvous://hangouts/pending").
		Name("Pending hangouts").
		Description("Hangouts waiting for a confirmed time").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListHangoutsHandler == nil {
				return nil, fmt.Errorf("hangout listing requires database connection")
			}
			hangouts, err := app.ListHangoutsHandler.Handle(ctx, hangoutQueries.ListHangoutsQuery{
				UserID: app.CurrentUserID,
				Status: "pending",
			})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, hangouts)
		})

	srv.Resource("rendezvous://profile").
		Name("Profile").
		Description("The current user's display name and time zone").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			p, err := currentProfile(ctx, app, time.Now())
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, p)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
