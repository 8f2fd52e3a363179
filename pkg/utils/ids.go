package utils

import (
	"context"

	"github.com/google/uuid"
)

// NewRequestID generates the correlation id sent as X-Request-ID
func NewRequestID() string {
	return uuid.New().String()
}

// ShortID returns the first eight characters of an id, for log lines
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type requestIDKey struct{}

// WithRequestID stores the request correlation id in ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the correlation id carried by ctx, or a fresh one
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return NewRequestID()
}
