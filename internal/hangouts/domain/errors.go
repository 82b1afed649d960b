package domain

import "errors"

var (
	ErrInvalidHangout    = errors.New("invalid hangout")
	ErrSameUser          = errors.New("organizer and friend must be different users")
	ErrInvalidTransition = errors.New("invalid hangout status transition")
	ErrHangoutNotFound   = errors.New("hangout not found")
	ErrNotParticipant    = errors.New("user is not part of this hangout")
	ErrNoProposedTimes   = errors.New("at least one time must be proposed")
)
