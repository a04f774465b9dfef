package controller

import (
	"context"

	"github.com/rs/zerolog"

	pkglog "github.com/weiawesome/wes-io-live/pkg/log"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/client"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/panel"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/store"
)

// Controller tracks the state of one room. It consumes upstream events,
// keeps a RoomStore current and re-emits every catalog event, after its
// hook ran, to the notifier.
type Controller struct {
	roomID    string
	store     *store.RoomStore
	notifier  store.Notifier
	transport client.Transport
	goals     panel.GoalExtractor
	hooks     HookTable
	multiGoal bool
	logger    zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithHook registers hook for name, replacing any built-in one.
func WithHook(name domain.EventName, hook Hook) Option {
	return func(c *Controller) { c.hooks[name] = hook }
}

// WithMultiGoal selects the multi-goal completion rule.
func WithMultiGoal(enabled bool) Option {
	return func(c *Controller) { c.multiGoal = enabled }
}

// WithLogger sets the base logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// New creates a controller for roomID. Derived and re-emitted events go to
// notifier; transport fetches the panel and may be nil when no panel
// refresh is expected.
func New(roomID string, notifier store.Notifier, transport client.Transport, opts ...Option) *Controller {
	if notifier == nil {
		notifier = store.NotifierFunc(func(*domain.Event) {})
	}
	c := &Controller{
		roomID:    roomID,
		notifier:  notifier,
		transport: transport,
		goals:     panel.LabelExtractor{},
		logger:    pkglog.L(),
	}
	c.hooks = c.defaultHooks()
	for _, opt := range opts {
		opt(c)
	}
	c.store = store.NewRoomStore(roomID, notifier, store.WithMultiGoal(c.multiGoal))
	return c
}

// Settings returns a copy of the current room state.
func (c *Controller) Settings() domain.Settings {
	return c.store.Settings()
}

// Handle processes one inbound event. Lifecycle signals only move the
// connection state; catalog events run through their hook and are
// re-emitted; anything else is dropped.
func (c *Controller) Handle(ctx context.Context, ev *domain.Event) {
	if ev == nil {
		return
	}
	ctx = pkglog.WithRoom(pkglog.WithLogger(ctx, c.logger), c.roomID, string(ev.Name))
	l := pkglog.Ctx(ctx)

	if ev.RoomID == "" {
		ev.RoomID = c.roomID
	}
	if ev.Payload == nil {
		ev.Payload = map[string]any{}
	}

	switch ev.Name {
	case domain.EventInit:
		c.initialize(ctx, ev)
	case domain.EventSocketOpen:
		c.store.SetConnectionState(domain.StateConnecting)
	case domain.EventSocketError:
		c.store.SetConnectionState(domain.StateError)
	case domain.EventSocketClose:
		c.store.SetConnectionState(domain.StateDisconnected)
	default:
		if !domain.IsCatalog(ev.Name) {
			l.Warn().Msg("dropping unknown event")
			return
		}
		c.notifier.Emit(c.hooks.Apply(ctx, ev))
	}
}
