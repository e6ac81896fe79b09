// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services and session components read them for logging
// and timestamps without importing net/http.
//
//	requestID := requestcontext.RequestID(ctx)
//	browserSession := requestcontext.BrowserSessionID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey        struct{}
	browserSessionIDKey struct{}
	deviceKey           struct{}
	requestTimeKey      struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestID        = requestIDKey{}
	ContextKeyBrowserSessionID = browserSessionIDKey{}
	ContextKeyDevice           = deviceKey{}
	ContextKeyRequestTime      = requestTimeKey{}
)

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// BrowserSessionID retrieves the opaque browser session identifier.
func BrowserSessionID(ctx context.Context) string {
	if sid, ok := ctx.Value(ContextKeyBrowserSessionID).(string); ok {
		return sid
	}
	return ""
}

// WithBrowserSessionID injects the browser session identifier.
func WithBrowserSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ContextKeyBrowserSessionID, sessionID)
}

// Device retrieves the human-readable device label derived from the User-Agent.
func Device(ctx context.Context) string {
	if d, ok := ctx.Value(ContextKeyDevice).(string); ok {
		return d
	}
	return ""
}

// WithDevice injects a device label into the context.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, ContextKeyDevice, device)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (background sweeps, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
