package domain

import "errors"

var (
	ErrInvalidClockTime  = errors.New("invalid clock time")
	ErrInvalidDayOfWeek  = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidSlot       = errors.New("invalid availability slot")
	ErrInvalidException  = errors.New("invalid availability exception")
	ErrInvalidDate       = errors.New("invalid civil date, use YYYY-MM-DD")
	ErrInvalidDateRange  = errors.New("end date is before start date")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrSlotNotFound      = errors.New("availability slot not found")
	ErrExceptionNotFound = errors.New("availability exception not found")
)
