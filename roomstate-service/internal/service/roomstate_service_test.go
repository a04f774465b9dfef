package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/roomstate-service/internal/bus"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/controller"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

func newTestService(t *testing.T, cfg Config) (RoomStateService, *bus.Emitter) {
	t.Helper()
	emitter := bus.NewEmitter()
	return NewRoomStateService(emitter, nil, cfg, controller.WithLogger(zerolog.Nop())), emitter
}

func TestRoomStateService_HandleEventCreatesRoom(t *testing.T) {
	svc, emitter := newTestService(t, Config{})
	ctx := context.Background()

	var got []*domain.Event
	emitter.OnAny(func(ev *domain.Event) { got = append(got, ev) })

	require.NoError(t, svc.HandleEvent(ctx, domain.NewEvent(domain.EventJoinedRoom, "b", nil)))
	require.NoError(t, svc.HandleEvent(ctx, domain.NewEvent(domain.EventSocketOpen, "a", nil)))

	assert.Equal(t, []string{"a", "b"}, svc.Rooms(ctx))

	snap, err := svc.Snapshot(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, domain.StateJoined, snap.ConnectionState)

	snap, err = svc.Snapshot(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StateConnecting, snap.ConnectionState)

	require.Len(t, got, 3)
	assert.Equal(t, domain.EventStateChange, got[0].Name)
	assert.Equal(t, "b", got[0].RoomID)
	assert.Equal(t, domain.EventJoinedRoom, got[1].Name)
	assert.Equal(t, "a", got[2].RoomID)
}

func TestRoomStateService_RoomsAreIsolated(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()

	require.NoError(t, svc.HandleEvent(ctx, domain.NewEvent(domain.EventRoomCount, "a", map[string]any{domain.KeyCount: 5})))
	require.NoError(t, svc.HandleEvent(ctx, domain.NewEvent(domain.EventRoomCount, "b", map[string]any{domain.KeyCount: 9})))

	a, err := svc.Snapshot(ctx, "a")
	require.NoError(t, err)
	b, err := svc.Snapshot(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, 5.0, a.ViewCount)
	assert.Equal(t, 9.0, b.ViewCount)
}

func TestRoomStateService_Errors(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.HandleEvent(ctx, nil), ErrMissingRoomID)
	assert.ErrorIs(t, svc.HandleEvent(ctx, domain.NewEvent(domain.EventTip, "", nil)), ErrMissingRoomID)

	_, err := svc.Snapshot(ctx, "nope")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Empty(t, svc.Rooms(ctx))
}

func TestRoomStateService_ConcurrentRooms(t *testing.T) {
	svc, _ := newTestService(t, Config{MultiGoal: true})
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, room := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(room string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = svc.HandleEvent(ctx, domain.NewEvent(domain.EventRoomCount, room, map[string]any{domain.KeyCount: i}))
				_, _ = svc.Snapshot(ctx, room)
			}
		}(room)
	}
	wg.Wait()

	assert.Len(t, svc.Rooms(ctx), 4)
}
