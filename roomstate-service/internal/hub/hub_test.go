package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(Config{PingInterval: time.Second, PongWait: time.Second, WriteWait: time.Second, MaxMessageSize: 1024})
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return data
	case <-time.After(time.Second):
		t.Fatal("no message")
		return nil
	}
}

func TestHub_ForwardToRoomSubscribers(t *testing.T) {
	h := newRunningHub(t)
	a := NewClient("a", h, nil)
	b := NewClient("b", h, nil)
	h.Register(a)
	h.Register(b)
	h.Join(a, "r1")
	h.Join(b, "r2")

	h.Forward(domain.NewEvent(domain.EventTip, "r1", map[string]any{"amount": 3}))

	var ev domain.Event
	require.NoError(t, json.Unmarshal(receive(t, a), &ev))
	assert.Equal(t, domain.EventTip, ev.Name)
	assert.Equal(t, "r1", ev.RoomID)
	assert.Empty(t, b.Send)
}

func TestHub_JoinRequiresRegistration(t *testing.T) {
	h := newRunningHub(t)
	c := NewClient("c", h, nil)

	h.Join(c, "r1")

	assert.Equal(t, 0, h.RoomClientCount("r1"))
}

func TestHub_UnregisterAndLeave(t *testing.T) {
	h := newRunningHub(t)
	c := NewClient("c", h, nil)
	h.Register(c)
	h.Join(c, "r1")
	h.Join(c, "r2")
	assert.Equal(t, 1, h.RoomClientCount("r1"))

	h.Leave(c, "r1")
	assert.Equal(t, 0, h.RoomClientCount("r1"))

	h.Unregister(c)
	require.Eventually(t, func() bool { return h.RoomClientCount("r2") == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.NoError(t, c.SendMessage(map[string]string{"type": "late"}))
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := newRunningHub(t)
	c := NewClient("slow", h, nil)
	h.Register(c)
	h.Join(c, "r1")

	for i := 0; i < cap(c.Send)+1; i++ {
		require.NoError(t, h.BroadcastToRoom("r1", map[string]int{"i": i}))
	}

	require.Eventually(t, func() bool { return h.RoomClientCount("r1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub(Config{})
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	c := NewClient("c", h, nil)
	h.Register(c)
	h.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, ok := <-c.Send
	assert.False(t, ok)

	late := NewClient("late", h, nil)
	h.Register(late)
	_, ok = <-late.Send
	assert.False(t, ok)
}
