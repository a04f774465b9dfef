package service

import (
	"context"
	"errors"

	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

var (
	// ErrRoomNotFound is returned for a room no event has been seen for.
	ErrRoomNotFound = errors.New("room not found")
	// ErrMissingRoomID is returned for an event that names no room.
	ErrMissingRoomID = errors.New("event has no room id")
)

// RoomStateService routes upstream events to per-room controllers.
type RoomStateService interface {
	// HandleEvent feeds an event to the controller of its room, creating the
	// controller on first sight.
	HandleEvent(ctx context.Context, ev *domain.Event) error

	// Snapshot returns the current settings of a room.
	Snapshot(ctx context.Context, roomID string) (domain.Settings, error)

	// Rooms returns the IDs of every tracked room, sorted.
	Rooms(ctx context.Context) []string
}
