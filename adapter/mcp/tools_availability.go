package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	"github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
	"github.com/felixgeelhaar/rendezvous/internal/availability/application/queries"
)

type slotInput struct {
	DayOfWeek *int   `json:"day_of_week,omitempty"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"start_time" jsonschema:"required"`
	EndTime   string `json:"end_time" jsonschema:"required"`
}

type availabilityListInput struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type availabilityWeeklyInput struct {
	Slots []slotInput `json:"slots"`
}

type slotIDInput struct {
	SlotID string `json:"slot_id" jsonschema:"required"`
	Active *bool  `json:"active,omitempty"`
}

type exceptionAddInput struct {
	Date      string `json:"date" jsonschema:"required"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type exceptionRemoveInput struct {
	ExceptionID string `json:"exception_id" jsonschema:"required"`
}

type mutualInput struct {
	FriendID        string `json:"friend_id" jsonschema:"required"`
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	BufferMinutes   int    `json:"buffer_minutes,omitempty"`
}

func registerAvailabilityTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("availability.list").
		Description("List the current user's availability slots and exceptions").
		Handler(func(ctx context.Context, input availabilityListInput) (*queries.AvailabilityDTO, error) {
			if app == nil || app.ListAvailabilityHandler == nil {
				return nil, errors.New("availability listing requires database connection")
			}
			return app.ListAvailabilityHandler.Handle(ctx, queries.ListAvailabilityQuery{
				UserID: app.CurrentUserID,
				From:   input.From,
				To:     input.To,
			})
		})

	srv.Tool("availability.add").
		Description("Add a weekly (day_of_week 0-6) or one-off (date) availability slot").
		Handler(func(ctx context.Context, input slotInput) (map[string]any, error) {
			if app == nil || app.AddSlotHandler == nil {
				return nil, errors.New("availability requires database connection")
			}
			id, err := app.AddSlotHandler.Handle(ctx, commands.AddSlotCommand{
				UserID: app.CurrentUserID,
				Slot:   input.toCommand(),
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"slot_id": id}, nil
		})

	srv.Tool("availability.weekly").
		Description("Replace all weekly slots; one-off dates are kept").
		Handler(func(ctx context.Context, input availabilityWeeklyInput) (map[string]any, error) {
			if app == nil || app.ReplaceWeeklyHandler == nil {
				return nil, errors.New("availability requires database connection")
			}
			slots := make([]commands.SlotInput, 0, len(input.Slots))
			for _, s := range input.Slots {
				slots = append(slots, s.toCommand())
			}
			n, err := app.ReplaceWeeklyHandler.Handle(ctx, commands.ReplaceWeeklyCommand{
				UserID: app.CurrentUserID,
				Slots:  slots,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"slots": n}, nil
		})

	srv.Tool("availability.set_active").
		Description("Activate or deactivate a slot (active defaults to true)").
		Handler(func(ctx context.Context, input slotIDInput) (map[string]any, error) {
			if app == nil || app.SlotHandler == nil {
				return nil, errors.New("availability requires database connection")
			}
			slotID, err := parseUUID(input.SlotID)
			if err != nil {
				return nil, err
			}
			active := input.Active == nil || *input.Active
			if err := app.SlotHandler.SetActive(ctx, commands.SetSlotActiveCommand{
				UserID: app.CurrentUserID,
				SlotID: slotID,
				Active: active,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"slot_id": slotID, "active": active}, nil
		})

	srv.Tool("availability.delete").
		Description("Delete a slot").
		Handler(func(ctx context.Context, input slotIDInput) (map[string]any, error) {
			if app == nil || app.SlotHandler == nil {
				return nil, errors.New("availability requires database connection")
			}
			slotID, err := parseUUID(input.SlotID)
			if err != nil {
				return nil, err
			}
			if err := app.SlotHandler.Delete(ctx, commands.DeleteSlotCommand{UserID: app.CurrentUserID, SlotID: slotID}); err != nil {
				return nil, err
			}
			return map[string]any{"slot_id": slotID, "deleted": true}, nil
		})

	srv.Tool("availability.except").
		Description("Block out part of a date, or the whole day when no times are given").
		Handler(func(ctx context.Context, input exceptionAddInput) (map[string]any, error) {
			if app == nil || app.AddExceptionHandler == nil {
				return nil, errors.New("availability requires database connection")
			}
			id, err := app.AddExceptionHandler.Handle(ctx, commands.AddExceptionCommand{
				UserID:    app.CurrentUserID,
				Date:      input.Date,
				StartTime: input.StartTime,
				EndTime:   input.EndTime,
				Reason:    input.Reason,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"exception_id": id}, nil
		})

	srv.Tool("availability.remove_exception").
		Description("Remove an availability exception").
		Handler(func(ctx context.Context, input exceptionRemoveInput) (map[string]any, error) {
			if app == nil || app.DeleteExceptionHandler == nil {
				return nil, errors.New("availability requires database connection")
			}
			id, err := parseUUID(input.ExceptionID)
			if err != nil {
				return nil, err
			}
			if err := app.DeleteExceptionHandler.Handle(ctx, id); err != nil {
				return nil, err
			}
			return map[string]any{"exception_id": id, "deleted": true}, nil
		})

	srv.Tool("availability.mutual").
		Description("Find windows the current user and a friend are both free").
		Handler(func(ctx context.Context, input mutualInput) (*queries.MutualAvailabilityDTO, error) {
			return mutualAvailability(ctx, app, input, time.Now())
		})

	return nil
}

func (s slotInput) toCommand() commands.SlotInput {
	return commands.SlotInput{
		DayOfWeek: s.DayOfWeek,
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

func mutualAvailability(ctx context.Context, app *cli.App, input mutualInput, now time.Time) (*queries.MutualAvailabilityDTO, error) {
	if app == nil || app.MutualAvailabilityHandler == nil {
		return nil, errors.New("mutual availability requires database connection")
	}
	friendID, err := parseUUID(input.FriendID)
	if err != nil {
		return nil, err
	}
	start, end, err := dateRange(input.StartDate, input.EndDate, 7, now)
	if err != nil {
		return nil, err
	}
	if input.DurationMinutes == 0 {
		input.DurationMinutes = 60
	}
	return app.MutualAvailabilityHandler.Handle(ctx, queries.MutualAvailabilityQuery{
		UserID:          app.CurrentUserID,
		FriendID:        friendID,
		StartDate:       start,
		EndDate:         end,
		DurationMinutes: input.DurationMinutes,
		BufferMinutes:   input.BufferMinutes,
	})
}
