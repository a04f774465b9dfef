package store

import (
	"slices"
	"sync"

	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

// Notifier receives the events derived from state changes.
type Notifier interface {
	Emit(ev *domain.Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ev *domain.Event)

// Emit calls f(ev).
func (f NotifierFunc) Emit(ev *domain.Event) { f(ev) }

// RoomStore is the mutable snapshot of derived room state for one session.
// Setters that derive events release the lock before notifying, so a
// notified handler may read the store.
type RoomStore struct {
	mu        sync.RWMutex
	roomID    string
	notifier  Notifier
	multiGoal bool
	s         domain.Settings
}

// Option configures a RoomStore.
type Option func(*RoomStore)

// WithMultiGoal selects the multi-goal completion rule.
func WithMultiGoal(enabled bool) Option {
	return func(r *RoomStore) { r.multiGoal = enabled }
}

// NewRoomStore creates an empty store. roomID tags every derived event.
func NewRoomStore(roomID string, n Notifier, opts ...Option) *RoomStore {
	if n == nil {
		n = NotifierFunc(func(*domain.Event) {})
	}
	r := &RoomStore{
		roomID:   roomID,
		notifier: n,
		s: domain.Settings{
			AppInfo: []domain.AppInfo{},
			Panel:   []domain.PanelRow{},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns a copy of every public field.
func (r *RoomStore) Settings() domain.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.s
	out.AppInfo = slices.Clone(r.s.AppInfo)
	out.Panel = slices.Clone(r.s.Panel)
	out.Goal = copyGoal(r.s.Goal)
	return out
}

// ConnectionState returns the current connection state.
func (r *RoomStore) ConnectionState() domain.ConnectionState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.ConnectionState
}

// SetConnectionState stores state and emits state_change when it differs
// from the current value. It reports whether a change happened.
func (r *RoomStore) SetConnectionState(state domain.ConnectionState) bool {
	r.mu.Lock()
	if r.s.ConnectionState == state {
		r.mu.Unlock()
		return false
	}
	r.s.ConnectionState = state
	r.mu.Unlock()

	r.notifier.Emit(domain.NewEvent(domain.EventStateChange, r.roomID, map[string]any{
		domain.KeyState: string(state),
	}))
	return true
}

// ModelStatus returns the current model status.
func (r *RoomStore) ModelStatus() domain.ModelStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.ModelStatus
}

// SetModelStatus stores status and emits model_status_change when it
// differs from the current value. It reports whether a change happened.
func (r *RoomStore) SetModelStatus(status domain.ModelStatus) bool {
	r.mu.Lock()
	if r.s.ModelStatus == status {
		r.mu.Unlock()
		return false
	}
	r.s.ModelStatus = status
	r.mu.Unlock()

	r.notifier.Emit(domain.NewEvent(domain.EventModelStatusChange, r.roomID, map[string]any{
		domain.KeyStatus: string(status),
	}))
	return true
}

// Room returns the broadcaster identity, empty until init provides it.
func (r *RoomStore) Room() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.Room
}

func (r *RoomStore) SetRoom(room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Room = room
}

// IsHost reports whether username is the broadcaster of this room.
func (r *RoomStore) IsHost(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.Room != "" && username == r.s.Room
}

// AppInfo returns a copy of the running apps.
func (r *RoomStore) AppInfo() []domain.AppInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.s.AppInfo)
}

// SetAppInfo parses raw and replaces the running apps with every entry
// that could be built. A non-nil error names the segments that could not.
func (r *RoomStore) SetAppInfo(raw string) error {
	apps, err := ParseAppInfo(raw)

	r.mu.Lock()
	r.s.AppInfo = apps
	r.mu.Unlock()

	return err
}

// Panel returns a copy of the panel rows.
func (r *RoomStore) Panel() []domain.PanelRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.s.Panel)
}

// SetPanel replaces the panel wholesale.
func (r *RoomStore) SetPanel(rows []domain.PanelRow) {
	if rows == nil {
		rows = []domain.PanelRow{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Panel = slices.Clone(rows)
}

// Goal returns a copy of the current goal, or nil.
func (r *RoomStore) Goal() *domain.Goal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyGoal(r.s.Goal)
}

// SetGoal compares goal against the current one, commits it, then emits
// goal_progress and goal_reached (in that order) as the delta dictates.
func (r *RoomStore) SetGoal(goal *domain.Goal) {
	next := copyGoal(goal)

	r.mu.Lock()
	delta := DetectGoalDelta(r.s.Goal, next, r.multiGoal)
	r.s.Goal = next
	r.mu.Unlock()

	if delta.Progress {
		r.notifier.Emit(domain.NewEvent(domain.EventGoalProgress, r.roomID, map[string]any{
			domain.KeyGoal: copyGoal(next),
		}))
	}
	if delta.Reached {
		r.notifier.Emit(domain.NewEvent(domain.EventGoalReached, r.roomID, map[string]any{
			domain.KeyGoal: copyGoal(next),
		}))
	}
}

func (r *RoomStore) SpyPrice() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.SpyPrice
}

func (r *RoomStore) SetSpyPrice(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.SpyPrice = v
}

func (r *RoomStore) ViewCount() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.ViewCount
}

func (r *RoomStore) SetViewCount(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.ViewCount = v
}

func (r *RoomStore) GroupPrice() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.GroupPrice
}

func (r *RoomStore) SetGroupPrice(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.GroupPrice = v
}

func (r *RoomStore) GroupNumUsersRequired() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.GroupNumUsersRequired
}

func (r *RoomStore) SetGroupNumUsersRequired(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.GroupNumUsersRequired = v
}

func (r *RoomStore) GroupNumUsersWaiting() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.GroupNumUsersWaiting
}

func (r *RoomStore) SetGroupNumUsersWaiting(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.GroupNumUsersWaiting = v
}

func (r *RoomStore) PrivatePrice() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.PrivatePrice
}

func (r *RoomStore) SetPrivatePrice(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.PrivatePrice = v
}

func (r *RoomStore) GroupsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.GroupsEnabled
}

func (r *RoomStore) SetGroupsEnabled(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.GroupsEnabled = v
}

func (r *RoomStore) PrivatesEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.PrivatesEnabled
}

func (r *RoomStore) SetPrivatesEnabled(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.PrivatesEnabled = v
}

func (r *RoomStore) WelcomeMessage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.WelcomeMessage
}

func (r *RoomStore) SetWelcomeMessage(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.WelcomeMessage = v
}

func (r *RoomStore) Subject() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.Subject
}

func (r *RoomStore) SetSubject(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Subject = v
}

func (r *RoomStore) Gender() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.Gender
}

func (r *RoomStore) SetGender(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Gender = v
}

// APIEndpoints returns the upstream URLs learned at init.
func (r *RoomStore) APIEndpoints() domain.APIEndpoints {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.APIEndpoints
}

func (r *RoomStore) SetAPIEndpoints(v domain.APIEndpoints) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.APIEndpoints = v
}

func copyGoal(g *domain.Goal) *domain.Goal {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}
