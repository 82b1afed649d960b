package domain

import "fmt"

// Status is the lifecycle state of a hangout.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusDeclined  Status = "declined"
)

// ParseStatus validates a stored or user-supplied status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusDeclined:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidHangout, s)
}

// IsFinal reports whether no further transition is allowed.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusDeclined
}
