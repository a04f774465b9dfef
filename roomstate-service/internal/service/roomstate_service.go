package service

import (
	"context"
	"slices"
	"sync"

	"github.com/spf13/cast"

	pkglog "github.com/weiawesome/wes-io-live/pkg/log"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/audit"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/bus"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/client"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/controller"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

// Config holds room state service configuration.
type Config struct {
	MultiGoal bool
}

type roomStateService struct {
	emitter   *bus.Emitter
	transport client.Transport
	config    Config
	opts      []controller.Option

	rooms map[string]*controller.Controller
	mu    sync.RWMutex
}

// NewRoomStateService creates a RoomStateService whose controllers emit to
// emitter. opts are applied to every controller it creates.
func NewRoomStateService(
	emitter *bus.Emitter,
	transport client.Transport,
	cfg Config,
	opts ...controller.Option,
) RoomStateService {
	s := &roomStateService{
		emitter:   emitter,
		transport: transport,
		config:    cfg,
		opts:      opts,
		rooms:     make(map[string]*controller.Controller),
	}

	emitter.On(domain.EventStateChange, s.auditor(audit.ActionStateChange, domain.KeyState))
	emitter.On(domain.EventModelStatusChange, s.auditor(audit.ActionModelStatusChange, domain.KeyStatus))
	emitter.On(domain.EventGoalReached, func(ev *domain.Event) {
		audit.LogStateChange(context.Background(), ev.RoomID, audit.ActionGoalReached, "")
	})

	return s
}

func (s *roomStateService) auditor(action, key string) bus.Handler {
	return func(ev *domain.Event) {
		audit.LogStateChange(context.Background(), ev.RoomID, action, cast.ToString(ev.Payload[key]))
	}
}

func (s *roomStateService) HandleEvent(ctx context.Context, ev *domain.Event) error {
	if ev == nil || ev.RoomID == "" {
		return ErrMissingRoomID
	}
	s.roomController(ev.RoomID).Handle(ctx, ev)
	return nil
}

func (s *roomStateService) roomController(roomID string) *controller.Controller {
	s.mu.RLock()
	c, ok := s.rooms[roomID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.rooms[roomID]; ok {
		return c
	}

	opts := append([]controller.Option{controller.WithMultiGoal(s.config.MultiGoal)}, s.opts...)
	c = controller.New(roomID, s.emitter, s.transport, opts...)
	s.rooms[roomID] = c

	l := pkglog.L()
	l.Info().Str(pkglog.FieldRoomID, roomID).Msg("tracking room")
	return c
}

func (s *roomStateService) Snapshot(_ context.Context, roomID string) (domain.Settings, error) {
	s.mu.RLock()
	c, ok := s.rooms[roomID]
	s.mu.RUnlock()
	if !ok {
		return domain.Settings{}, ErrRoomNotFound
	}
	return c.Settings(), nil
}

func (s *roomStateService) Rooms(_ context.Context) []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	slices.Sort(ids)
	return ids
}
