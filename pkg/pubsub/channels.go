package pubsub

import (
	"fmt"
	"strings"
)

// Channel naming conventions for the room state pipeline.
const (
	// Upstream normalizer -> roomstate-service
	ChannelUpstreamToRoomState = "upstream:room:%s:to_roomstate"

	// roomstate-service -> application subscribers
	ChannelRoomStateToClient = "roomstate:room:%s:to_client"
)

// Kafka topics derived from the channel patterns above.
const (
	TopicUpstreamToRoomState = "upstream-to-roomstate"
	TopicRoomStateToClient   = "roomstate-to-client"
)

// UpstreamToRoomStateChannel returns the channel carrying normalized
// upstream events for a room.
func UpstreamToRoomStateChannel(roomID string) string {
	return fmt.Sprintf(ChannelUpstreamToRoomState, roomID)
}

// UpstreamToRoomStatePattern matches the upstream channel of every room.
func UpstreamToRoomStatePattern() string {
	return UpstreamToRoomStateChannel("*")
}

// RoomStateToClientChannel returns the channel carrying re-emitted and
// derived events for a room.
func RoomStateToClientChannel(roomID string) string {
	return fmt.Sprintf(ChannelRoomStateToClient, roomID)
}

// RoomIDFromChannel extracts the room segment of a channel name.
func RoomIDFromChannel(channel string) (string, error) {
	parts := strings.Split(channel, ":")
	if len(parts) != 4 || parts[1] != "room" || parts[2] == "" {
		return "", fmt.Errorf("invalid channel format: %s", channel)
	}
	return parts[2], nil
}
