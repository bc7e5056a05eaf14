package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"rosechat/pkg/models"
	"rosechat/pkg/store"
)

func newProfileRouter(t *testing.T) *mux.Router {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	r := mux.NewRouter()
	RegisterProfiles(r, s)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProfileEndpoints(t *testing.T) {
	r := newProfileRouter(t)

	t.Run("CreateAndGet", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/profiles", models.Profile{
			Name:      "alice",
			Inventory: models.Inventory{"hello": {Rarity: "COMMON"}},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, r, http.MethodGet, "/profiles/alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var p models.Profile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		require.Equal(t, "alice", p.Name)
		require.Contains(t, p.Inventory, "hello")
		require.NotZero(t, p.CreatedTS)
	})

	t.Run("CreateConflicts", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/profiles", models.Profile{Name: "alice"})
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("CreateRequiresName", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/profiles", models.Profile{})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GetUnknownIs404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/profiles/ghost", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("List", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/profiles", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out struct {
			Profiles []models.Profile `json:"profiles"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out.Profiles, 1)
	})

	t.Run("InventoryRoundTrip", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/profiles/alice/inventory", map[string]any{
			"inventory": models.Inventory{"world": {Rarity: "RARE"}},
		})
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, r, http.MethodGet, "/profiles/alice/inventory", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out struct {
			Name      string           `json:"name"`
			Inventory models.Inventory `json:"inventory"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Contains(t, out.Inventory, "world")
		require.NotContains(t, out.Inventory, "hello")
	})

	t.Run("GrantWords", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/profiles/alice/inventory/words", map[string]any{
			"words":  []string{"rose", "garden"},
			"rarity": "EPIC",
		})
		require.Equal(t, http.StatusOK, w.Code)
		var p models.Profile
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		require.Contains(t, p.Inventory, "rose")
		require.Equal(t, "EPIC", p.Inventory["garden"].Rarity)

		w = doJSON(t, r, http.MethodPost, "/profiles/alice/inventory/words", map[string]any{})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		w := doJSON(t, r, http.MethodDelete, "/profiles/alice", nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		w = doJSON(t, r, http.MethodDelete, "/profiles/alice", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
