package reqctx

import (
	"context"
	"errors"
)

// Key for request-scoped values in context
type contextKey string

const (
	requestIDKey contextKey = "requestID"
)

// ErrNoRequestIDInContext is returned when no request ID is found in context
var ErrNoRequestIDInContext = errors.New("no request ID found in context")

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// FromRequestIDContext extracts the request ID from the context
func FromRequestIDContext(ctx context.Context) (string, error) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "", ErrNoRequestIDInContext
	}
	return requestID, nil
}

// RequestIDOrDefault returns the request ID from the context, or defaultValue when absent.
func RequestIDOrDefault(ctx context.Context, defaultValue string) string {
	requestID, err := FromRequestIDContext(ctx)
	if err != nil {
		return defaultValue
	}
	return requestID
}
