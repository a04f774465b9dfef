package hub

import (
	"encoding/json"
	"sync"
	"time"

	pkglog "github.com/weiawesome/wes-io-live/pkg/log"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

// Config holds websocket client timing.
type Config struct {
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// Hub fans room events out to the websocket clients subscribed to them.
type Hub struct {
	clients    map[string]*Client            // clientID -> client
	rooms      map[string]map[string]*Client // roomID -> clientID -> client
	unregister chan *Client
	broadcast  chan *RoomBroadcast
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	config     Config
}

type RoomBroadcast struct {
	RoomID  string
	Message []byte
}

func NewHub(cfg Config) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *RoomBroadcast, 256),
		done:       make(chan struct{}),
		config:     cfg,
	}
}

// Run serves unregistrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	l := pkglog.L()
	for {
		select {
		case client := <-h.unregister:
			h.removeClient(client)
			l.Debug().Str(pkglog.FieldClientID, client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			var slow []*Client
			h.mu.RLock()
			for _, client := range h.rooms[msg.RoomID] {
				if !client.enqueue(msg.Message) {
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				h.removeClient(client)
			}

		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				client.close()
				delete(h.clients, id)
			}
			h.rooms = make(map[string]map[string]*Client)
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register makes client eligible for Join. Registration after Stop closes
// the client.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.done:
		client.close()
		return
	default:
	}
	h.clients[client.ID] = client

	l := pkglog.L()
	l.Debug().Str(pkglog.FieldClientID, client.ID).Msg("client registered")
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	for roomID, members := range h.rooms {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(h.clients, client.ID)
	client.close()
}

// Join subscribes client to roomID. Clients no longer registered are
// ignored.
func (h *Hub) Join(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][client.ID] = client

	l := pkglog.L()
	l.Info().Str(pkglog.FieldClientID, client.ID).Str(pkglog.FieldRoomID, roomID).Msg("client subscribed")
}

// Leave unsubscribes client from roomID.
func (h *Hub) Leave(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[roomID]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}

	l := pkglog.L()
	l.Info().Str(pkglog.FieldClientID, client.ID).Str(pkglog.FieldRoomID, roomID).Msg("client unsubscribed")
}

// RoomClientCount returns the number of clients subscribed to roomID.
func (h *Hub) RoomClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom sends message as JSON to every subscriber of roomID.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- &RoomBroadcast{RoomID: roomID, Message: data}:
	case <-h.done:
	}
	return nil
}

// Forward broadcasts an emitted event to the subscribers of its room.
func (h *Hub) Forward(ev *domain.Event) {
	if err := h.BroadcastToRoom(ev.RoomID, ev); err != nil {
		l := pkglog.L()
		l.Error().Err(err).Str(pkglog.FieldRoomID, ev.RoomID).
			Str(pkglog.FieldEvent, string(ev.Name)).Msg("failed to encode event for websocket")
	}
}
