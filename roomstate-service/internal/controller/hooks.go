package controller

import (
	"context"
	"errors"
	"fmt"

	pkglog "github.com/weiawesome/wes-io-live/pkg/log"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/panel"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/store"
)

var (
	// ErrNoUser is returned for a user-bearing event without a user object.
	ErrNoUser = errors.New("event has no user")
	// ErrNoPanelEndpoint is returned when a panel refresh runs before init
	// provided the panel URL.
	ErrNoPanelEndpoint = errors.New("panel endpoint not known yet")
	// ErrNoTransport is returned when a hook needs the upstream transport
	// and none was configured.
	ErrNoTransport = errors.New("no upstream transport")
)

// Hook transforms one event, possibly mutating room state on the way. It
// receives a private copy of the inbound event and returns the event to
// re-emit.
type Hook func(ctx context.Context, ev *domain.Event) (*domain.Event, error)

// HookTable maps event names to their hook. Names without an entry pass
// through unchanged.
type HookTable map[domain.EventName]Hook

// Apply runs the hook registered for ev.Name. If the hook fails, panics or
// returns nil, the original ev is returned untouched.
func (t HookTable) Apply(ctx context.Context, ev *domain.Event) (out *domain.Event) {
	hook, ok := t[ev.Name]
	if !ok {
		return ev
	}

	l := pkglog.Ctx(ctx)
	defer func() {
		if r := recover(); r != nil {
			l.Error().Interface("panic", r).Msg("hook panicked, forwarding original event")
			out = ev
		}
	}()

	res, err := hook(ctx, ev.Clone())
	if err != nil {
		l.Warn().Err(err).Msg("hook failed, forwarding original event")
		return ev
	}
	if res == nil {
		return ev
	}
	return res
}

func (c *Controller) defaultHooks() HookTable {
	return HookTable{
		domain.EventAuth:                   c.onAuth,
		domain.EventJoinedRoom:             c.setsState(domain.StateJoined),
		domain.EventLeaveRoom:              c.setsState(domain.StateLeave),
		domain.EventPersonallyKicked:       c.setsState(domain.StateKicked),
		domain.EventAwayModeCancel:         c.setsStatus(domain.StatusPublic),
		domain.EventAppTabRefresh:          c.onAppTabRefresh,
		domain.EventClearApp:               c.onPanelRefresh,
		domain.EventRefreshPanel:           c.onPanelRefresh,
		domain.EventSettingsUpdate:         c.onSettingsUpdate,
		domain.EventTitleChange:            c.onTitleChange,
		domain.EventPrivateShowApproved:    c.onPrivateShowApproved,
		domain.EventPrivateShowCancel:      c.setsStatus(domain.StatusAway),
		domain.EventGroupShowApprove:       c.onGroupShowApprove,
		domain.EventGroupShowCancel:        c.setsStatus(domain.StatusAway),
		domain.EventGroupShowRequest:       c.onGroupShowRequest,
		domain.EventHiddenShowStatusChange: c.onHiddenShowStatusChange,
		domain.EventRoomCount:              c.onRoomCount,
		domain.EventRoomEntry:              c.stampHost,
		domain.EventRoomLeave:              c.stampHost,
		domain.EventRoomMessage:            c.stampHost,
		domain.EventTip:                    c.stampHost,
	}
}

func (c *Controller) setsState(state domain.ConnectionState) Hook {
	return func(_ context.Context, ev *domain.Event) (*domain.Event, error) {
		c.store.SetConnectionState(state)
		return ev, nil
	}
}

func (c *Controller) setsStatus(status domain.ModelStatus) Hook {
	return func(_ context.Context, ev *domain.Event) (*domain.Event, error) {
		c.store.SetModelStatus(status)
		return ev, nil
	}
}

func (c *Controller) onAuth(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	if truthy(ev.Payload[domain.KeySuccess]) {
		c.store.SetConnectionState(domain.StateConnected)
	} else {
		c.store.SetConnectionState(domain.StateFail)
	}
	return ev, nil
}

func (c *Controller) onAppTabRefresh(ctx context.Context, ev *domain.Event) (*domain.Event, error) {
	if room := c.store.Room(); room != "" {
		if c.transport == nil {
			return nil, ErrNoTransport
		}
		if err := c.transport.Navigate(ctx, room); err != nil {
			return nil, fmt.Errorf("failed to navigate to %s: %w", room, err)
		}
	}
	return c.onPanelRefresh(ctx, ev)
}

// onPanelRefresh replaces the payload with the refreshed panel and goal.
func (c *Controller) onPanelRefresh(ctx context.Context, ev *domain.Event) (*domain.Event, error) {
	rows, goal, err := c.refreshPanel(ctx, c.store.Room())
	if err != nil {
		return nil, err
	}
	ev.Payload = map[string]any{
		domain.KeyPanel: rows,
		domain.KeyGoal:  goal,
	}
	return ev, nil
}

func (c *Controller) onSettingsUpdate(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	p := ev.Payload
	c.store.SetSpyPrice(num(p, domain.KeySpyPrice))
	c.store.SetPrivatePrice(num(p, domain.KeyPrivatePrice))
	c.store.SetGroupPrice(num(p, domain.KeyGroupPrice))
	c.store.SetGroupNumUsersRequired(num(p, domain.KeyGroupUsersRequired))
	c.store.SetGroupNumUsersWaiting(num(p, domain.KeyGroupUsersWaiting))
	c.store.SetGroupsEnabled(truthy(p[domain.KeyAllowGroupShows]))
	c.store.SetPrivatesEnabled(truthy(p[domain.KeyAllowPrivateShows]))
	return ev, nil
}

func (c *Controller) onTitleChange(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	title := str(ev.Payload, domain.KeyTitle)
	if title == "" {
		ev.Payload[domain.KeyTitle] = c.store.Subject()
		return ev, nil
	}
	c.store.SetSubject(title)
	return ev, nil
}

func (c *Controller) onPrivateShowApproved(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	c.store.SetModelStatus(domain.StatusPrivate)
	c.store.SetPrivatePrice(num(ev.Payload, domain.KeyPrice))
	return ev, nil
}

func (c *Controller) onGroupShowApprove(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	c.store.SetModelStatus(domain.StatusGroup)
	c.store.SetGroupPrice(num(ev.Payload, domain.KeyPrice))
	return ev, nil
}

func (c *Controller) onGroupShowRequest(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	c.store.SetGroupNumUsersRequired(num(ev.Payload, domain.KeyUsersRequired))
	c.store.SetGroupNumUsersWaiting(num(ev.Payload, domain.KeyUsersWaiting))
	c.store.SetGroupPrice(num(ev.Payload, domain.KeyPrice))
	return ev, nil
}

func (c *Controller) onHiddenShowStatusChange(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	if truthy(ev.Payload[domain.KeyIsStarting]) {
		c.store.SetModelStatus(domain.StatusHidden)
	} else {
		c.store.SetModelStatus(domain.StatusPublic)
	}
	return ev, nil
}

func (c *Controller) onRoomCount(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	c.store.SetViewCount(num(ev.Payload, domain.KeyCount))
	return ev, nil
}

func (c *Controller) stampHost(_ context.Context, ev *domain.Event) (*domain.Event, error) {
	user := ev.Map(domain.KeyUser)
	if user == nil {
		return nil, ErrNoUser
	}
	user[domain.KeyIsHost] = c.store.IsHost(str(user, domain.KeyUsername))
	return ev, nil
}

// refreshPanel fetches the panel markup for room, stores its rows and the
// goal derived from them. An empty room is left out of the query.
func (c *Controller) refreshPanel(ctx context.Context, room string) ([]domain.PanelRow, *domain.Goal, error) {
	endpoint := c.store.APIEndpoints().GetPanelURL
	if endpoint == "" {
		return nil, nil, ErrNoPanelEndpoint
	}
	if c.transport == nil {
		return nil, nil, ErrNoTransport
	}

	query := map[string]string{}
	if room != "" {
		query[domain.KeyRoom] = room
	}

	markup, err := c.transport.Fetch(ctx, endpoint, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch panel: %w", err)
	}

	rows, err := panel.Transform(markup)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to transform panel: %w", err)
	}

	goal := c.goals.Extract(store.ActiveApp(c.store.AppInfo()), rows)

	c.store.SetPanel(rows)
	c.store.SetGoal(goal)

	return rows, goal, nil
}
