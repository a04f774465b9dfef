package relay

import (
	"context"
	"time"

	pkglog "github.com/weiawesome/wes-io-live/pkg/log"
	"github.com/weiawesome/wes-io-live/pkg/pubsub"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/bus"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

// Relay publishes every emitted event to the room's outbound channel.
type Relay struct {
	pub     pubsub.Publisher
	timeout time.Duration
}

// NewRelay creates a Relay publishing through pub.
func NewRelay(pub pubsub.Publisher) *Relay {
	return &Relay{pub: pub, timeout: 5 * time.Second}
}

// Attach forwards every event of emitter until the returned func is called.
func (r *Relay) Attach(emitter *bus.Emitter) func() {
	return emitter.OnAny(r.Forward)
}

// Forward publishes ev on the outbound channel of its room.
func (r *Relay) Forward(ev *domain.Event) {
	l := pkglog.L()

	msg, err := pubsub.NewEvent(string(ev.Name), ev.RoomID, ev.Payload)
	if err != nil {
		l.Error().Err(err).Str(pkglog.FieldRoomID, ev.RoomID).
			Str(pkglog.FieldEvent, string(ev.Name)).Msg("relay: failed to encode event")
		return
	}
	msg.Timestamp = ev.Timestamp

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	channel := pubsub.RoomStateToClientChannel(ev.RoomID)
	if err := r.pub.Publish(ctx, channel, msg); err != nil {
		l.Error().Err(err).Str(pkglog.FieldChannel, channel).
			Str(pkglog.FieldEvent, string(ev.Name)).Msg("relay: publish failed")
	}
}
