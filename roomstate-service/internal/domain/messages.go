package domain

// WebSocket message types from client.
const (
	MsgTypeSubscribe   = "subscribe"
	MsgTypeUnsubscribe = "unsubscribe"
	MsgTypePing        = "ping"
)

// WebSocket message types to client.
const (
	MsgTypeSubscribed   = "subscribed"
	MsgTypeUnsubscribed = "unsubscribed"
	MsgTypeError        = "error"
	MsgTypePong         = "pong"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// RoomMessage is sent by clients to subscribe to or leave a room.
type RoomMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

// SubscribedMessage confirms a subscription. Settings is set when the room
// is already tracked.
type SubscribedMessage struct {
	Type     string    `json:"type"`
	RoomID   string    `json:"room_id"`
	Settings *Settings `json:"settings,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorMessage(msg string) *ErrorMessage {
	return &ErrorMessage{Type: MsgTypeError, Message: msg}
}
