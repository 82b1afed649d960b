package queries

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
)

// ListHangoutsQuery lists a user's hangouts, optionally narrowed to one
// friend and one status.
type ListHangoutsQuery struct {
	UserID   uuid.UUID
	FriendID uuid.UUID
	Status   string
}

// HangoutDTO is the read model returned to adapters.
type HangoutDTO struct {
	ID              uuid.UUID `json:"id"`
	OrganizerID     uuid.UUID `json:"organizer_id"`
	FriendID        uuid.UUID `json:"friend_id"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// ListHangoutsHandler handles ListHangoutsQuery.
type ListHangoutsHandler struct {
	repo domain.Repository
}

func NewListHangoutsHandler(repo domain.Repository) *ListHangoutsHandler {
	return &ListHangoutsHandler{repo: repo}
}

func (h *ListHangoutsHandler) Handle(ctx context.Context, q ListHangoutsQuery) ([]HangoutDTO, error) {
	if q.UserID == uuid.Nil {
		return nil, errors.New("user_id is required")
	}
	var status domain.Status
	if q.Status != "" {
		s, err := domain.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}

	hangouts, err := h.repo.FindByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]HangoutDTO, 0, len(hangouts))
	for _, hg := range hangouts {
		if q.FriendID != uuid.Nil && !hg.Involves(q.FriendID) {
			continue
		}
		if status != "" && hg.Status() != status {
			continue
		}
		out = append(out, HangoutDTO{
			ID:              hg.ID(),
			OrganizerID:     hg.OrganizerID(),
			FriendID:        hg.FriendID(),
			Title:           hg.Title(),
			Status:          string(hg.Status()),
			Date:            hg.ScheduledDate(),
			StartTime:       hg.ScheduledTime().String(),
			DurationMinutes: hg.DurationMinutes(),
		})
	}
	return out, nil
}
