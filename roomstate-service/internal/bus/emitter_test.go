package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

func TestEmitter(t *testing.T) {
	e := NewEmitter()

	var got []string
	e.On(domain.EventTip, func(ev *domain.Event) { got = append(got, "tip:"+ev.RoomID) })
	offAny := e.OnAny(func(ev *domain.Event) { got = append(got, "any:"+string(ev.Name)) })

	e.Emit(domain.NewEvent(domain.EventTip, "alice", nil))
	e.Emit(domain.NewEvent(domain.EventRoomCount, "alice", nil))

	offAny()
	e.Emit(domain.NewEvent(domain.EventTip, "bob", nil))
	e.Emit(domain.NewEvent(domain.EventRoomCount, "bob", nil))

	assert.Equal(t, []string{"tip:alice", "any:tip", "any:room_count", "tip:bob"}, got)
}

func TestEmitter_UnsubscribeDuringEmit(t *testing.T) {
	e := NewEmitter()

	calls := 0
	var off func()
	off = e.OnAny(func(*domain.Event) {
		calls++
		off()
	})

	e.Emit(domain.NewEvent(domain.EventTip, "alice", nil))
	e.Emit(domain.NewEvent(domain.EventTip, "alice", nil))
	assert.Equal(t, 1, calls)
}
