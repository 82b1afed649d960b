package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	hangoutCommands "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/commands"
	hangoutsDomain "github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	"github.com/felixgeelhaar/rendezvous/internal/suggestions/application/queries"
)

type suggestInput struct {
	FriendID            string `json:"friend_id" jsonschema:"required"`
	StartDate           string `json:"start_date,omitempty"`
	EndDate             string `json:"end_date,omitempty"`
	DurationMinutes     int    `json:"duration_minutes,omitempty"`
	BufferMinutes       int    `json:"buffer_minutes,omitempty"`
	MaxSuggestions      int    `json:"max_suggestions,omitempty"`
	IncludeWeekends     *bool  `json:"include_weekends,omitempty"`
	TimeOfDayPreference string `json:"time_of_day,omitempty"`
}

type proposeInput struct {
	FriendID        string                        `json:"friend_id" jsonschema:"required"`
	Title           string                        `json:"title,omitempty"`
	DurationMinutes int                           `json:"duration_minutes" jsonschema:"required"`
	Times           []hangoutsDomain.ProposedTime `json:"times" jsonschema:"required"`
}

func registerSuggestionTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("suggestions.generate").
		Description("Rank times the current user and a friend could meet, using shared availability, meeting history and preferences").
		Handler(func(ctx context.Context, input suggestInput) (*queries.SuggestionsDTO, error) {
			return suggest(ctx, app, input, time.Now())
		})

	srv.Tool("suggestions.propose").
		Description("Propose a set of times to a friend as a pending hangout").
		Handler(func(ctx context.Context, input proposeInput) (*hangoutCommands.ProposeTimesResult, error) {
			if app == nil || app.ProposeTimesHandler == nil {
				return nil, errors.New("proposing times requires database connection")
			}
			friendID, err := parseUUID(input.FriendID)
			if err != nil {
				return nil, err
			}
			return app.ProposeTimesHandler.Handle(ctx, hangoutCommands.ProposeTimesCommand{
				UserID:          app.CurrentUserID,
				FriendID:        friendID,
				Title:           input.Title,
				DurationMinutes: input.DurationMinutes,
				Times:           input.Times,
			})
		})

	return nil
}

func suggest(ctx context.Context, app *cli.App, input suggestInput, now time.Time) (*queries.SuggestionsDTO, error) {
	if app == nil || app.GenerateSuggestionsHandler == nil {
		return nil, errors.New("suggestions require database connection")
	}
	friendID, err := parseUUID(input.FriendID)
	if err != nil {
		return nil, err
	}
	start, end, err := dateRange(input.StartDate, input.EndDate, 14, now)
	if err != nil {
		return nil, err
	}
	return app.GenerateSuggestionsHandler.Handle(ctx, queries.GenerateSuggestionsQuery{
		UserID:              app.CurrentUserID,
		FriendID:            friendID,
		StartDate:           start,
		EndDate:             end,
		DurationMinutes:     input.DurationMinutes,
		BufferMinutes:       input.BufferMinutes,
		MaxSuggestions:      input.MaxSuggestions,
		IncludeWeekends:     input.IncludeWeekends,
		TimeOfDayPreference: input.TimeOfDayPreference,
	})
}
