package domain

// Top-level keys of the init payload.
const (
	KeyHasWebsocket        = "hasWebsocket"
	KeyChatSettings        = "chatSettings"
	KeySettings            = "settings"
	KeyInitializerSettings = "initializerSettings"
)

// Keys shared by chatSettings, settings and settings_update payloads.
const (
	KeyWelcomeMessage     = "welcome_message"
	KeyRoomTitle          = "room_title"
	KeyBroadcasterGender  = "broadcaster_gender"
	KeySpyPrice           = "spy_private_show_price"
	KeyNumViewers         = "num_viewers"
	KeyGroupPrice         = "group_show_price"
	KeyGroupUsersRequired = "num_users_required_for_group"
	KeyGroupUsersWaiting  = "num_users_waiting_for_group"
	KeyPrivatePrice       = "private_show_price"
	KeyAllowGroupShows    = "allow_group_shows"
	KeyAllowPrivateShows  = "allow_private_shows"
	KeyAppsRunning        = "apps_running"
	KeyGetPanelURL        = "get_panel_url"
	KeyRoom               = "room"
	KeyConnecting         = "connecting"
	KeyConnected          = "connected"
	KeyRoomStatus         = "room_status"
	KeyJoined             = "joined"
)

// Keys read or written by event hooks.
const (
	KeySuccess       = "success"
	KeyTitle         = "title"
	KeyPrice         = "price"
	KeyUsersRequired = "users_required"
	KeyUsersWaiting  = "users_waiting"
	KeyIsStarting    = "is_starting"
	KeyCount         = "count"
	KeyUser          = "user"
	KeyUsername      = "username"
	KeyIsHost        = "isHost"
	KeyPanel         = "panel"
	KeyGoal          = "goal"
	KeyState         = "state"
	KeyStatus        = "status"
)
