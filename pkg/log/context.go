package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Ctx retrieves the logger from the context.
// If no logger is found, the global logger is returned.
func Ctx(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return L()
}

// WithRoom derives a child logger tagged with the room and event name
// and stores it in the context.
func WithRoom(ctx context.Context, roomID, event string) context.Context {
	parent := Ctx(ctx)
	child := parent.With().Str(FieldRoomID, roomID).Str(FieldEvent, event).Logger()
	return WithLogger(ctx, child)
}
