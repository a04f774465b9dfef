package domain

import "time"

// EventName identifies an event flowing through the controller.
type EventName string

// Lifecycle signals delivered by the upstream source.
const (
	EventInit        EventName = "init"
	EventSocketOpen  EventName = "socket_open"
	EventSocketError EventName = "socket_error"
	EventSocketClose EventName = "socket_close"
)

// Catalog events delivered by the upstream normalizer.
const (
	EventAuth                   EventName = "auth"
	EventJoinedRoom             EventName = "joined_room"
	EventLeaveRoom              EventName = "leave_room"
	EventPersonallyKicked       EventName = "personally_kicked"
	EventAwayModeCancel         EventName = "away_mode_cancel"
	EventAppTabRefresh          EventName = "app_tab_refresh"
	EventClearApp               EventName = "clear_app"
	EventRefreshPanel           EventName = "refresh_panel"
	EventSettingsUpdate         EventName = "settings_update"
	EventTitleChange            EventName = "title_change"
	EventPrivateShowApproved    EventName = "private_show_approved"
	EventPrivateShowCancel      EventName = "private_show_cancel"
	EventGroupShowApprove       EventName = "group_show_approve"
	EventGroupShowCancel        EventName = "group_show_cancel"
	EventGroupShowRequest       EventName = "group_show_request"
	EventHiddenShowStatusChange EventName = "hidden_show_status_change"
	EventRoomCount              EventName = "room_count"
	EventRoomEntry              EventName = "room_entry"
	EventRoomLeave              EventName = "room_leave"
	EventRoomMessage            EventName = "room_message"
	EventTip                    EventName = "tip"
	EventNotice                 EventName = "notice"
	EventPurchase               EventName = "purchase"
	EventFanclubJoin            EventName = "fanclub_join"
	EventSilence                EventName = "silence"
	EventKick                   EventName = "kick"
	EventRoomPasswordProtected  EventName = "room_password_protected"
)

// Events produced by the controller itself.
const (
	EventStateChange       EventName = "state_change"
	EventModelStatusChange EventName = "model_status_change"
	EventGoalProgress      EventName = "goal_progress"
	EventGoalReached       EventName = "goal_reached"
)

var catalog = map[EventName]struct{}{
	EventAuth:                   {},
	EventJoinedRoom:             {},
	EventLeaveRoom:              {},
	EventPersonallyKicked:       {},
	EventAwayModeCancel:         {},
	EventAppTabRefresh:          {},
	EventClearApp:               {},
	EventRefreshPanel:           {},
	EventSettingsUpdate:         {},
	EventTitleChange:            {},
	EventPrivateShowApproved:    {},
	EventPrivateShowCancel:      {},
	EventGroupShowApprove:       {},
	EventGroupShowCancel:        {},
	EventGroupShowRequest:       {},
	EventHiddenShowStatusChange: {},
	EventRoomCount:              {},
	EventRoomEntry:              {},
	EventRoomLeave:              {},
	EventRoomMessage:            {},
	EventTip:                    {},
	EventNotice:                 {},
	EventPurchase:               {},
	EventFanclubJoin:            {},
	EventSilence:                {},
	EventKick:                   {},
	EventRoomPasswordProtected:  {},
}

// IsCatalog reports whether name belongs to the upstream event catalog.
func IsCatalog(name EventName) bool {
	_, ok := catalog[name]
	return ok
}

// Event is a named event with a loosely-typed JSON object payload.
type Event struct {
	Name      EventName      `json:"type"`
	RoomID    string         `json:"room_id"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(name EventName, roomID string, payload map[string]any) *Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return &Event{
		Name:      name,
		RoomID:    roomID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Clone returns a deep copy. Nested maps and slices decoded from JSON
// are copied; other values are shared.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	out := *e
	out.Payload = cloneMap(e.Payload)
	return &out
}

// Map returns the nested object stored under key, or nil.
func (e *Event) Map(key string) map[string]any {
	m, _ := e.Payload[key].(map[string]any)
	return m
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
