package services

import "context"

type contextKey string

const (
	tickKey      contextKey = "tick"
	requestIDKey contextKey = "request_id"
)

// WithTick annotates context with the polling tick number.
func WithTick(ctx context.Context, tick uint64) context.Context {
	return context.WithValue(ctx, tickKey, tick)
}

// TickFromContext extracts the polling tick number if present.
func TickFromContext(ctx context.Context) (uint64, bool) {
	v, ok := ctx.Value(tickKey).(uint64)
	return v, ok
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
