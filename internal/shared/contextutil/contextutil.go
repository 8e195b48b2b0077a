package contextutil

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is unexported so keys cannot collide with other packages.
type contextKey string

const (
	requestIDKey     contextKey = "request_id"
	callerAddressKey contextKey = "caller_address"
	loggerKey        contextKey = "logger"
)

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// WithCallerAddress stores the authenticated wallet address of the caller.
// Services use it for the owner gate, so it must only ever be set by the
// auth middleware after token verification.
func WithCallerAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, callerAddressKey, addr)
}

func GetCallerAddress(ctx context.Context) string {
	if addr, ok := ctx.Value(callerAddressKey).(string); ok {
		return addr
	}
	return ""
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, falling back to the given
// default and finally to a nop logger so callers never get nil.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}

	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}
