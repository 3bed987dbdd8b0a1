// Package logging defines the structured-logging interface used across
// otpkeeper. The only implementation wraps log/slog.
//
// Secret material (Base32 secrets, passwords, derived keys, vault blobs) must
// never be passed as log arguments; log ids, counts and error kinds instead.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "sync finished", "local", 3, "remote", 4)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
