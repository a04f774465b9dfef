package domain

// ConnectionState is the lifecycle state of the upstream session.
type ConnectionState string

const (
	StateInit         ConnectionState = "INIT"
	StateConnecting   ConnectionState = "CONNECTING"
	StateConnected    ConnectionState = "CONNECTED"
	StateJoined       ConnectionState = "JOINED"
	StateLeave        ConnectionState = "LEAVE"
	StateKicked       ConnectionState = "KICKED"
	StateDisconnected ConnectionState = "DISCONNECTED"
	StateError        ConnectionState = "ERROR"
	StateFail         ConnectionState = "FAIL"
	StateOffline      ConnectionState = "OFFLINE"
)

// ModelStatus is the broadcaster's show status.
type ModelStatus string

const (
	StatusPublic  ModelStatus = "PUBLIC"
	StatusAway    ModelStatus = "AWAY"
	StatusPrivate ModelStatus = "PRIVATE"
	StatusGroup   ModelStatus = "GROUP"
	StatusHidden  ModelStatus = "HIDDEN"
)

// Valid reports whether s is one of the known model statuses.
func (s ModelStatus) Valid() bool {
	switch s {
	case StatusPublic, StatusAway, StatusPrivate, StatusGroup, StatusHidden:
		return true
	}
	return false
}

// AppInfo describes one running panel integration. An entry parsed from a
// segment without a URL is the zero value.
type AppInfo struct {
	Name string `json:"name,omitempty" mapstructure:"name"`
	URL  string `json:"url,omitempty" mapstructure:"url"`
	Slot string `json:"slot,omitempty" mapstructure:"slot"`
}

// PanelRow is one label/value row of the broadcaster panel.
type PanelRow struct {
	Label string `json:"label" mapstructure:"label"`
	Value string `json:"value" mapstructure:"value"`
}

// Goal is the broadcaster's progress target derived from the panel.
type Goal struct {
	Current   float64 `json:"goalCurrent" mapstructure:"goalCurrent"`
	Count     float64 `json:"goalCount" mapstructure:"goalCount"`
	Remaining float64 `json:"goalRemaining" mapstructure:"goalRemaining"`
}

// APIEndpoints holds upstream URLs learned at init.
type APIEndpoints struct {
	GetPanelURL string `json:"get_panel_url" mapstructure:"get_panel_url"`
}

// Settings is a flat copy of every public room field.
type Settings struct {
	ConnectionState       ConnectionState `json:"connection_state" mapstructure:"connection_state"`
	ModelStatus           ModelStatus     `json:"model_status" mapstructure:"model_status"`
	Room                  string          `json:"room" mapstructure:"room"`
	AppInfo               []AppInfo       `json:"app_info" mapstructure:"app_info"`
	Panel                 []PanelRow      `json:"panel" mapstructure:"panel"`
	Goal                  *Goal           `json:"goal" mapstructure:"goal"`
	SpyPrice              float64         `json:"spy_price" mapstructure:"spy_price"`
	ViewCount             float64         `json:"view_count" mapstructure:"view_count"`
	GroupPrice            float64         `json:"group_price" mapstructure:"group_price"`
	GroupNumUsersRequired float64         `json:"group_num_users_required" mapstructure:"group_num_users_required"`
	GroupNumUsersWaiting  float64         `json:"group_num_users_waiting" mapstructure:"group_num_users_waiting"`
	PrivatePrice          float64         `json:"private_price" mapstructure:"private_price"`
	GroupsEnabled         bool            `json:"groups_enabled" mapstructure:"groups_enabled"`
	PrivatesEnabled       bool            `json:"privates_enabled" mapstructure:"privates_enabled"`
	WelcomeMessage        string          `json:"welcome_message" mapstructure:"welcome_message"`
	Subject               string          `json:"subject" mapstructure:"subject"`
	Gender                string          `json:"gender" mapstructure:"gender"`
	APIEndpoints          APIEndpoints    `json:"api_endpoints" mapstructure:"api_endpoints"`
}
