package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkglog "github.com/weiawesome/wes-io-live/pkg/log"
	"github.com/weiawesome/wes-io-live/pkg/pubsub"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

var errStreamClosed = errors.New("event stream closed")

// EventHandler consumes decoded upstream events.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev *domain.Event) error
}

// Source subscribes to the upstream channel of every room and feeds the
// events, in arrival order, to a handler.
type Source struct {
	sub     pubsub.Subscriber
	pattern string
	handler EventHandler
	backoff time.Duration
	doneCh  chan struct{}
}

// NewSource creates a Source listening on the upstream room pattern.
func NewSource(sub pubsub.Subscriber, handler EventHandler) *Source {
	return &Source{
		sub:     sub,
		pattern: pubsub.UpstreamToRoomStatePattern(),
		handler: handler,
		backoff: 2 * time.Second,
		doneCh:  make(chan struct{}),
	}
}

// Done returns a channel that is closed when Run() exits.
func (s *Source) Done() <-chan struct{} { return s.doneCh }

// Run consumes events until ctx is done, resubscribing when the stream
// fails or closes.
func (s *Source) Run(ctx context.Context) {
	defer close(s.doneCh)
	l := pkglog.L()

	for {
		err := s.runSubscription(ctx)
		if ctx.Err() != nil {
			return
		}
		l.Warn().Err(err).Str(pkglog.FieldChannel, s.pattern).
			Dur("backoff", s.backoff).Msg("upstream subscription lost, resubscribing")

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.backoff):
		}
	}
}

func (s *Source) runSubscription(ctx context.Context) error {
	ch, err := s.sub.SubscribePattern(ctx, s.pattern)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errStreamClosed
			}
			s.handleMessage(ctx, msg)
		}
	}
}

func (s *Source) handleMessage(ctx context.Context, msg *pubsub.Event) {
	l := pkglog.L()

	ev, err := Decode(msg)
	if err != nil {
		l.Warn().Err(err).Msg("upstream: invalid event")
		return
	}
	if err := s.handler.HandleEvent(ctx, ev); err != nil {
		l.Error().Err(err).Str(pkglog.FieldRoomID, ev.RoomID).
			Str(pkglog.FieldEvent, string(ev.Name)).Msg("upstream: handle error")
	}
}

// Decode converts a bus envelope into a domain event. The payload must be
// a JSON object or empty.
func Decode(msg *pubsub.Event) (*domain.Event, error) {
	if msg == nil || msg.Type == "" {
		return nil, errors.New("event has no type")
	}

	payload := map[string]any{}
	if err := msg.UnmarshalPayload(&payload); err != nil {
		return nil, fmt.Errorf("invalid payload for %s: %w", msg.Type, err)
	}

	ev := domain.NewEvent(domain.EventName(msg.Type), msg.RoomID, payload)
	if !msg.Timestamp.IsZero() {
		ev.Timestamp = msg.Timestamp
	}
	return ev, nil
}
