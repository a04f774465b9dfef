package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	pkglog "github.com/weiawesome/wes-io-live/pkg/log"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/hub"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/service"
)

// WSHandler streams room events to websocket subscribers.
type WSHandler struct {
	hub      *hub.Hub
	service  service.RoomStateService
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(h *hub.Hub, svc service.RoomStateService) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := pkglog.Ctx(r.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

func (h *WSHandler) handleMessage(c *hub.Client, message []byte) {
	ctx := context.Background()

	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		c.SendMessage(domain.NewErrorMessage("invalid message format"))
		return
	}

	switch base.Type {
	case domain.MsgTypeSubscribe:
		var msg domain.RoomMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.RoomID == "" {
			c.SendMessage(domain.NewErrorMessage("room_id is required"))
			return
		}
		h.hub.Join(c, msg.RoomID)

		reply := domain.SubscribedMessage{Type: domain.MsgTypeSubscribed, RoomID: msg.RoomID}
		if settings, err := h.service.Snapshot(ctx, msg.RoomID); err == nil {
			reply.Settings = &settings
		}
		c.SendMessage(reply)

	case domain.MsgTypeUnsubscribe:
		var msg domain.RoomMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.RoomID == "" {
			c.SendMessage(domain.NewErrorMessage("room_id is required"))
			return
		}
		h.hub.Leave(c, msg.RoomID)
		c.SendMessage(domain.RoomMessage{Type: domain.MsgTypeUnsubscribed, RoomID: msg.RoomID})

	case domain.MsgTypePing:
		c.SendMessage(domain.BaseMessage{Type: domain.MsgTypePong})

	default:
		c.SendMessage(domain.NewErrorMessage("unknown message type: " + base.Type))
	}
}
