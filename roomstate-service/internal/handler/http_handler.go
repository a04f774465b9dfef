package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/weiawesome/wes-io-live/roomstate-service/internal/service"
)

// HTTPHandler serves read-only room state queries.
type HTTPHandler struct {
	service service.RoomStateService
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(svc service.RoomStateService) *HTTPHandler {
	return &HTTPHandler{
		service: svc,
	}
}

// RoomsResponse lists tracked rooms.
type RoomsResponse struct {
	Rooms []string `json:"rooms"`
	Total int      `json:"total"`
}

// ListRooms handles GET /api/v1/rooms
func (h *HTTPHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.service.Rooms(r.Context())
	writeJSON(w, http.StatusOK, RoomsResponse{Rooms: rooms, Total: len(rooms)})
}

// GetRoomState handles GET /api/v1/rooms/{room_id}/state
func (h *HTTPHandler) GetRoomState(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["room_id"]
	if roomID == "" {
		http.Error(w, "room_id is required", http.StatusBadRequest)
		return
	}

	settings, err := h.service.Snapshot(r.Context(), roomID)
	if errors.Is(err, service.ErrRoomNotFound) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to get room state", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// HealthCheck handles GET /health
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
