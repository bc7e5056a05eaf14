package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"rosechat/pkg/chat"
	"rosechat/pkg/models"
	"rosechat/pkg/utils"
)

type roomHandlers struct {
	room *chat.Room
}

// RegisterRoom registers read-only introspection endpoints over the live
// room state.
func RegisterRoom(r *mux.Router, room *chat.Room) {
	h := &roomHandlers{room: room}
	r.HandleFunc("/room/messages", h.listMessages).Methods(http.MethodGet)
	r.HandleFunc("/room/users", h.listUsers).Methods(http.MethodGet)
}

func (h *roomHandlers) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs := h.room.Messages()
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Messages []models.Message `json:"messages"`
	}{Messages: msgs})
}

func (h *roomHandlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users := h.room.Snapshot()
	_ = utils.JSONWrite(w, http.StatusOK, models.UsersUpdatePayload{Users: users})
}
