package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func parseOptionalUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}
	return parseUUID(value)
}

// dateRange fills a missing start with today and a missing end with
// start+days-1.
func dateRange(start, end string, days int, now time.Time) (string, string, error) {
	if start == "" {
		start = now.Format(dateLayout)
	}
	if end != "" {
		return start, end, nil
	}
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return "", "", fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return start, from.AddDate(0, 0, days-1).Format(dateLayout), nil
}
