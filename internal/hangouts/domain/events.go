package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/rendezvous/internal/shared/domain"
)

const (
	AggregateTypeHangout = "hangout"

	RoutingKeyTimesProposed    = "hangout.times_proposed"
	RoutingKeyHangoutConfirmed = "hangout.confirmed"
	RoutingKeyHangoutCompleted = "hangout.completed"
	RoutingKeyHangoutCancelled = "hangout.cancelled"
	RoutingKeyHangoutDeclined  = "hangout.declined"
)

// ProposedTime is one candidate offered to the friend.
type ProposedTime struct {
	Date       string  `json:"date"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Timezone   string  `json:"timezone"`
	Confidence float64 `json:"confidence"`
}

// TimesProposedEvent asks the notification service to offer times to the
// friend.
type TimesProposedEvent struct {
	sharedDomain.BaseEvent
	OrganizerID     uuid.UUID      `json:"organizer_id"`
	FriendID        uuid.UUID      `json:"friend_id"`
	Title           string         `json:"title"`
	DurationMinutes int            `json:"duration_minutes"`
	Times           []ProposedTime `json:"times"`
}

// StatusChangedEvent is published on confirm, complete, cancel and decline.
type StatusChangedEvent struct {
	sharedDomain.BaseEvent
	OrganizerID uuid.UUID `json:"organizer_id"`
	FriendID    uuid.UUID `json:"friend_id"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
}

func routingKeyFor(s Status) string {
	switch s {
	case StatusConfirmed:
		return RoutingKeyHangoutConfirmed
	case StatusCompleted:
		return RoutingKeyHangoutCompleted
	case StatusCancelled:
		return RoutingKeyHangoutCancelled
	default:
		return RoutingKeyHangoutDeclined
	}
}

func newStatusChanged(h *Hangout, from Status, at time.Time) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseEvent:   sharedDomain.NewBaseEvent(h.ID(), AggregateTypeHangout, routingKeyFor(h.status), at),
		OrganizerID: h.organizerID,
		FriendID:    h.friendID,
		From:        from,
		To:          h.status,
		Date:        h.date,
		StartTime:   h.start.String(),
	}
}
