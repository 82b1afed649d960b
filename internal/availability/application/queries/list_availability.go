package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
)

// ListAvailabilityQuery lists a user's slots and the exceptions dated in
// [From, To]. Exceptions are skipped when no range is given.
type ListAvailabilityQuery struct {
	UserID uuid.UUID
	From   string
	To     string
}

type SlotDTO struct {
	ID           uuid.UUID `json:"id"`
	DayOfWeek    int       `json:"day_of_week"`
	SpecificDate string    `json:"specific_date,omitempty"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	IsRecurring  bool      `json:"is_recurring"`
	IsActive     bool      `json:"is_active"`
}

type ExceptionDTO struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Reason    string    `json:"reason,omitempty"`
}

// AvailabilityDTO is a user's full availability. Both lists are never nil.
type AvailabilityDTO struct {
	Slots      []SlotDTO      `json:"slots"`
	Exceptions []ExceptionDTO `json:"exceptions"`
}

type ListAvailabilityHandler struct {
	slots      domain.SlotRepository
	exceptions domain.ExceptionRepository
}

func NewListAvailabilityHandler(slots domain.SlotRepository, exceptions domain.ExceptionRepository) *ListAvailabilityHandler {
	return &ListAvailabilityHandler{slots: slots, exceptions: exceptions}
}

func (h *ListAvailabilityHandler) Handle(ctx context.Context, q ListAvailabilityQuery) (*AvailabilityDTO, error) {
	if q.UserID == uuid.Nil {
		return nil, errors.New("user_id is required")
	}
	if (q.From == "") != (q.To == "") {
		return nil, errors.New("from and to must be given together")
	}

	slots, err := h.slots.FindByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	out := &AvailabilityDTO{
		Slots:      make([]SlotDTO, 0, len(slots)),
		Exceptions: make([]ExceptionDTO, 0),
	}
	for _, s := range slots {
		out.Slots = append(out.Slots, SlotDTO{
			ID:           s.ID(),
			DayOfWeek:    int(s.DayOfWeek()),
			SpecificDate: s.SpecificDate(),
			StartTime:    s.Start().String(),
			EndTime:      s.End().String(),
			IsRecurring:  s.IsRecurring(),
			IsActive:     s.IsActive(),
		})
	}

	if q.From == "" {
		return out, nil
	}
	if _, err := domain.DatesBetween(q.From, q.To); err != nil {
		return nil, err
	}
	exceptions, err := h.exceptions.FindByUserAndRange(ctx, q.UserID, q.From, q.To)
	if err != nil {
		return nil, err
	}
	for _, e := range exceptions {
		out.Exceptions = append(out.Exceptions, ExceptionDTO{
			ID:        e.ID(),
			Date:      e.Date(),
			StartTime: e.Start().String(),
			EndTime:   e.End().String(),
			Reason:    e.Reason(),
		})
	}
	return out, nil
}
