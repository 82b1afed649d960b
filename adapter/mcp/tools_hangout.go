package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/internal/hangouts/application/commands"
	"github.com/felixgeelhaar/rendezvous/internal/hangouts/application/queries"
)

type hangoutRecordInput struct {
	FriendID        string `json:"friend_id" jsonschema:"required"`
	Title           string `json:"title,omitempty"`
	Date            string `json:"date" jsonschema:"required"`
	StartTime       string `json:"start_time" jsonschema:"required"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Completed       bool   `json:"completed,omitempty"`
}

type hangoutListInput struct {
	FriendID string `json:"friend_id,omitempty"`
	Status   string `json:"status,omitempty"`
}

type hangoutStatusInput struct {
	HangoutID string `json:"hangout_id" jsonschema:"required"`
	Action    string `json:"action" jsonschema:"required"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
}

func registerHangoutTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("hangout.record").
		Description("Record a hangout with a friend; set completed for one that already happened").
		Handler(func(ctx context.Context, input hangoutRecordInput) (*commands.RecordHangoutResult, error) {
			if app == nil || app.RecordHangoutHandler == nil {
				return nil, errors.New("hangouts require database connection")
			}
			friendID, err := parseUUID(input.FriendID)
			if err != nil {
				return nil, err
			}
			if input.DurationMinutes == 0 {
				input.DurationMinutes = 120
			}
			return app.RecordHangoutHandler.Handle(ctx, commands.RecordHangoutCommand{
				UserID:          app.CurrentUserID,
				FriendID:        friendID,
				Title:           input.Title,
				Date:            input.Date,
				StartTime:       input.StartTime,
				DurationMinutes: input.DurationMinutes,
				Completed:       input.Completed,
			})
		})

	srv.Tool("hangout.list").
		Description("List hangouts, optionally with one friend or in one status").
		Handler(func(ctx context.Context, input hangoutListInput) ([]queries.HangoutDTO, error) {
			if app == nil || app.ListHangoutsHandler == nil {
				return nil, errors.New("hangouts require database connection")
			}
			friendID, err := parseOptionalUUID(input.FriendID)
			if err != nil {
				return nil, err
			}
			return app.ListHangoutsHandler.Handle(ctx, queries.ListHangoutsQuery{
				UserID:   app.CurrentUserID,
				FriendID: friendID,
				Status:   input.Status,
			})
		})

	srv.Tool("hangout.status").
		Description("Confirm, complete, cancel or decline a hangout").
		Handler(func(ctx context.Context, input hangoutStatusInput) (map[string]any, error) {
			if app == nil || app.ChangeStatusHandler == nil {
				return nil, errors.New("hangouts require database connection")
			}
			hangoutID, err := parseUUID(input.HangoutID)
			if err != nil {
				return nil, err
			}
			status, err := app.ChangeStatusHandler.Handle(ctx, commands.ChangeStatusCommand{
				UserID:    app.CurrentUserID,
				HangoutID: hangoutID,
				Action:    commands.Action(input.Action),
				Date:      input.Date,
				StartTime: input.StartTime,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"hangout_id": hangoutID, "status": status}, nil
		})

	return nil
}
