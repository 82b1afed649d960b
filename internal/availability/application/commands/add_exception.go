package commands

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
)

// AddExceptionCommand blocks part of one date. Empty times block the whole
// day.
type AddExceptionCommand struct {
	UserID    uuid.UUID
	Date      string
	StartTime string
	EndTime   string
	Reason    string
}

func (c AddExceptionCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user_id is required")
	}
	if c.Date == "" {
		return errors.New("date is required")
	}
	if (c.StartTime == "") != (c.EndTime == "") {
		return errors.New("start_time and end_time must be given together")
	}
	return nil
}

// AddExceptionHandler handles AddExceptionCommand.
type AddExceptionHandler struct {
	repo domain.ExceptionRepository
}

func NewAddExceptionHandler(repo domain.ExceptionRepository) *AddExceptionHandler {
	return &AddExceptionHandler{repo: repo}
}

func (h *AddExceptionHandler) Handle(ctx context.Context, cmd AddExceptionCommand) (uuid.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return uuid.Nil, err
	}
	start, end := domain.ClockTime(0), domain.ClockTime(domain.MinutesPerDay)
	if cmd.StartTime != "" {
		var err error
		if start, err = domain.ParseClockTime(cmd.StartTime); err != nil {
			return uuid.Nil, err
		}
		if end, err = domain.ParseClockTime(cmd.EndTime); err != nil {
			return uuid.Nil, err
		}
	}
	ex, err := domain.NewException(cmd.UserID, cmd.Date, start, end, cmd.Reason, time.Now().UTC())
	if err != nil {
		return uuid.Nil, err
	}
	if err := h.repo.Save(ctx, ex); err != nil {
		return uuid.Nil, err
	}
	return ex.ID(), nil
}

// DeleteExceptionHandler removes an exception by id.
type DeleteExceptionHandler struct {
	repo domain.ExceptionRepository
}

func NewDeleteExceptionHandler(repo domain.ExceptionRepository) *DeleteExceptionHandler {
	return &DeleteExceptionHandler{repo: repo}
}

func (h *DeleteExceptionHandler) Handle(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("exception id is required")
	}
	return h.repo.Delete(ctx, id)
}
