package domain

import "errors"

var (
	// ErrSuggestionGenerationFailed wraps availability, calendar and profile
	// failures. Pattern failures never surface.
	ErrSuggestionGenerationFailed = errors.New("suggestion generation failed")
	ErrInvalidRequest             = errors.New("invalid suggestion request")
)
