package handler

import (
	"github.com/gorilla/mux"
)

// NewRouter wires the websocket and HTTP endpoints.
func NewRouter(ws *WSHandler, api *HTTPHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/ws", ws.HandleWebSocket)

	router.HandleFunc("/api/v1/rooms", api.ListRooms).Methods("GET")
	router.HandleFunc("/api/v1/rooms/{room_id}/state", api.GetRoomState).Methods("GET")
	router.HandleFunc("/health", api.HealthCheck).Methods("GET")

	return router
}
