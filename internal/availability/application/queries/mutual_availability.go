package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/availability/application/services"
	"github.com/felixgeelhaar/rendezvous/internal/availability/domain"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

// MutualAvailabilityQuery asks which windows two users share.
type MutualAvailabilityQuery struct {
	UserID          uuid.UUID
	FriendID        uuid.UUID
	StartDate       string
	EndDate         string
	DurationMinutes int
	BufferMinutes   int
}

// WindowDTO is one shared window. Times are in the user's zone; the friend
// columns show the same instants in the friend's zone.
type WindowDTO struct {
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	FriendStartTime string `json:"friend_start_time"`
	FriendEndTime   string `json:"friend_end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type MutualAvailabilityDTO struct {
	UserTimezone   string      `json:"user_timezone"`
	FriendTimezone string      `json:"friend_timezone"`
	Windows        []WindowDTO `json:"windows"`
}

// MutualAvailabilityFinder is implemented by services.MutualFinder.
type MutualAvailabilityFinder interface {
	FindMutualAvailability(ctx context.Context, req services.MutualRequest) (*services.MutualAvailability, error)
}

type MutualAvailabilityHandler struct {
	finder MutualAvailabilityFinder
}

func NewMutualAvailabilityHandler(finder MutualAvailabilityFinder) *MutualAvailabilityHandler {
	return &MutualAvailabilityHandler{finder: finder}
}

func (h *MutualAvailabilityHandler) Handle(ctx context.Context, q MutualAvailabilityQuery) (*MutualAvailabilityDTO, error) {
	res, err := h.finder.FindMutualAvailability(ctx, services.MutualRequest{
		UserID:    q.UserID,
		FriendID:  q.FriendID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Duration:  time.Duration(q.DurationMinutes) * time.Minute,
		Buffer:    time.Duration(q.BufferMinutes) * time.Minute,
	})
	if err != nil {
		return nil, err
	}

	friendLoc, err := timezone.Load(res.FriendTimezone)
	if err != nil {
		return nil, err
	}
	out := &MutualAvailabilityDTO{
		UserTimezone:   res.UserTimezone,
		FriendTimezone: res.FriendTimezone,
		Windows:        make([]WindowDTO, 0, len(res.Windows)),
	}
	for _, w := range res.Windows {
		out.Windows = append(out.Windows, WindowDTO{
			Date:            w.Date,
			StartTime:       clock(w.Start),
			EndTime:         clock(w.End),
			FriendStartTime: clock(w.Start.In(friendLoc)),
			FriendEndTime:   clock(w.End.In(friendLoc)),
			DurationMinutes: int(w.Duration() / time.Minute),
		})
	}
	return out, nil
}

// clock renders an instant as HH:MM in its own zone.
func clock(t time.Time) string {
	return domain.ClockOf(t).String()
}
