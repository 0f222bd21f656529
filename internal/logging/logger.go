// Package logging is the structured logger the client stores and the API
// client write to. SlogLogger backs it with log/slog.
package logging

import "context"

// Logger takes a message plus alternating keys and values:
//
//	log.Error(ctx, "failed to fetch menu items", "op", "fetch", "error", err)
//
// The context is passed through to the handler.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record, e.g. the
	// store or component name.
	With(args ...any) Logger
}
