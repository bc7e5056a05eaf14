package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"rosechat/pkg/chat"
	"rosechat/pkg/hub"
	"rosechat/pkg/models"
)

func TestRoomEndpoints(t *testing.T) {
	room := chat.NewRoom(hub.New(0), chat.Options{})
	room.Join("c1", "alice", models.Inventory{"hello": {Rarity: "COMMON"}})
	if _, err := room.SendMessage("c1", "hello", []string{"hello"}); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	r := mux.NewRouter()
	RegisterRoom(r, room)

	t.Run("Messages", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/room/messages", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out struct {
			Messages []models.Message `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out.Messages, 1)
		require.Equal(t, "alice", out.Messages[0].Author)
	})

	t.Run("Users", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/room/users", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out models.UsersUpdatePayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out.Users, 1)
		require.Equal(t, "alice", out.Users[0].UserName)
		require.Equal(t, 1, out.Users[0].VocabCount)
	})
}
