package source

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/pkg/pubsub"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

type fakeSubscriber struct {
	mu       sync.Mutex
	streams  []chan *pubsub.Event
	patterns []string
	failures int
}

func (f *fakeSubscriber) SubscribePattern(_ context.Context, pattern string) (<-chan *pubsub.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patterns = append(f.patterns, pattern)
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("redis unavailable")
	}
	ch := make(chan *pubsub.Event, 8)
	f.streams = append(f.streams, ch)
	return ch, nil
}

func (f *fakeSubscriber) stream(i int) chan *pubsub.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.streams) {
		return nil
	}
	return f.streams[i]
}

type handlerFunc func(ctx context.Context, ev *domain.Event) error

func (f handlerFunc) HandleEvent(ctx context.Context, ev *domain.Event) error { return f(ctx, ev) }

func collect() (handlerFunc, func() []*domain.Event) {
	var (
		mu  sync.Mutex
		got []*domain.Event
	)
	h := func(_ context.Context, ev *domain.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
		return nil
	}
	return h, func() []*domain.Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]*domain.Event(nil), got...)
	}
}

func TestDecode(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	ev, err := Decode(&pubsub.Event{
		Type:      "tip",
		RoomID:    "r1",
		Payload:   json.RawMessage(`{"amount":25,"user":{"username":"bob"}}`),
		Timestamp: ts,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EventTip, ev.Name)
	assert.Equal(t, "r1", ev.RoomID)
	assert.Equal(t, ts, ev.Timestamp)
	assert.Equal(t, 25.0, ev.Payload["amount"])
	assert.Equal(t, "bob", ev.Map("user")["username"])

	ev, err = Decode(&pubsub.Event{Type: "socket_open", RoomID: "r1"})
	require.NoError(t, err)
	assert.NotNil(t, ev.Payload)
	assert.False(t, ev.Timestamp.IsZero())

	_, err = Decode(&pubsub.Event{Type: "tip", Payload: json.RawMessage(`[1,2]`)})
	assert.Error(t, err)

	_, err = Decode(&pubsub.Event{})
	assert.Error(t, err)
}

func TestSource_DeliversInOrder(t *testing.T) {
	sub := &fakeSubscriber{}
	h, got := collect()
	src := NewSource(sub, h)

	ctx, cancel := context.WithCancel(context.Background())
	go src.Run(ctx)

	require.Eventually(t, func() bool { return sub.stream(0) != nil }, time.Second, 5*time.Millisecond)
	ch := sub.stream(0)
	ch <- &pubsub.Event{Type: "socket_open", RoomID: "r1"}
	ch <- &pubsub.Event{Type: "tip", RoomID: "r1", Payload: json.RawMessage(`"bad"`)}
	ch <- &pubsub.Event{Type: "auth", RoomID: "r1", Payload: json.RawMessage(`{"success":true}`)}

	require.Eventually(t, func() bool { return len(got()) == 2 }, time.Second, 5*time.Millisecond)
	events := got()
	assert.Equal(t, domain.EventSocketOpen, events[0].Name)
	assert.Equal(t, domain.EventAuth, events[1].Name)
	assert.Equal(t, []string{pubsub.UpstreamToRoomStatePattern()}, sub.patterns)

	cancel()
	select {
	case <-src.Done():
	case <-time.After(time.Second):
		t.Fatal("source did not stop")
	}
}

func TestSource_Resubscribes(t *testing.T) {
	sub := &fakeSubscriber{failures: 1}
	h, got := collect()
	src := NewSource(sub, h)
	src.backoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go src.Run(ctx)

	require.Eventually(t, func() bool { return sub.stream(0) != nil }, time.Second, 5*time.Millisecond)
	close(sub.stream(0))

	require.Eventually(t, func() bool { return sub.stream(1) != nil }, time.Second, 5*time.Millisecond)
	sub.stream(1) <- &pubsub.Event{Type: "room_count", RoomID: "r2", Payload: json.RawMessage(`{"count":3}`)}

	require.Eventually(t, func() bool { return len(got()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "r2", got()[0].RoomID)
}
