package observability

import (
	"context"

	"github.com/google/uuid"
)

// CorrelationIDKey is the log attribute carrying the correlation ID.
const CorrelationIDKey = "correlation_id"

type correlationIDCtxKey struct{}

// WithCorrelationID stores id on the context, generating one when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, correlationIDCtxKey{}, id)
}

// CorrelationID returns the correlation ID stored on ctx, or "".
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDCtxKey{}).(string)
	return id
}
