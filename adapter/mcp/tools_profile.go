package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	"github.com/felixgeelhaar/rendezvous/internal/identity/application/profile"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

type profileTimezoneInput struct {
	Timezone string `json:"timezone" jsonschema:"required"`
}

type profileOutput struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Timezone    string `json:"timezone"`
	Offset      string `json:"offset"`
	Detected    bool   `json:"detected"`
}

func registerProfileTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("profile.get").
		Description("Get the current user's display name and time zone").
		Handler(func(ctx context.Context, input struct{}) (*profileOutput, error) {
			return currentProfile(ctx, app, time.Now())
		})

	srv.Tool("profile.set_timezone").
		Description("Set the current user's IANA time zone").
		Handler(func(ctx context.Context, input profileTimezoneInput) (*profileOutput, error) {
			if app == nil || app.Profiles == nil {
				return nil, errors.New("profiles require database connection")
			}
			if _, err := app.Profiles.SetTimezone(ctx, profile.SetTimezoneCommand{
				UserID:   app.CurrentUserID,
				Timezone: input.Timezone,
			}); err != nil {
				return nil, err
			}
			return currentProfile(ctx, app, time.Now())
		})

	return nil
}

func currentProfile(ctx context.Context, app *cli.App, now time.Time) (*profileOutput, error) {
	if app == nil || app.Profiles == nil {
		return nil, errors.New("profiles require database connection")
	}
	p, err := app.Profiles.Get(ctx, app.CurrentUserID)
	if err != nil {
		return nil, err
	}
	tz, err := app.Profiles.Timezone(ctx, app.CurrentUserID)
	if err != nil {
		return nil, err
	}
	offset, err := timezone.OffsetOf(tz, now)
	if err != nil {
		return nil, err
	}
	out := &profileOutput{
		UserID:   app.CurrentUserID.String(),
		Timezone: tz,
		Offset:   offset,
		Detected: p == nil || p.Timezone() == "",
	}
	if p != nil {
		out.DisplayName = p.DisplayName()
	}
	return out, nil
}
