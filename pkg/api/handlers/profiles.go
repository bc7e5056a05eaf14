package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"rosechat/pkg/logger"
	"rosechat/pkg/models"
	"rosechat/pkg/store"
	"rosechat/pkg/utils"
)

type profileHandlers struct {
	store *store.Store
}

// RegisterProfiles registers HTTP handlers for profile and inventory
// endpoints. This surface writes only to the persistent store; the live
// room reads it once per connection, at join time.
func RegisterProfiles(r *mux.Router, s *store.Store) {
	h := &profileHandlers{store: s}

	r.HandleFunc("/profiles", h.createProfile).Methods(http.MethodPost)
	r.HandleFunc("/profiles", h.listProfiles).Methods(http.MethodGet)
	r.HandleFunc("/profiles/{name}", h.getProfile).Methods(http.MethodGet)
	r.HandleFunc("/profiles/{name}", h.updateProfile).Methods(http.MethodPut)
	r.HandleFunc("/profiles/{name}", h.deleteProfile).Methods(http.MethodDelete)
	r.HandleFunc("/profiles/{name}/inventory", h.getInventory).Methods(http.MethodGet)
	r.HandleFunc("/profiles/{name}/inventory", h.setInventory).Methods(http.MethodPut)
	r.HandleFunc("/profiles/{name}/inventory/words", h.grantWords).Methods(http.MethodPost)
}

func (h *profileHandlers) createProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.Name == "" {
		utils.JSONError(w, http.StatusBadRequest, "name required")
		return
	}
	if _, err := h.store.GetProfile(p.Name); err == nil {
		utils.JSONError(w, http.StatusConflict, "profile exists")
		return
	}
	if err := h.store.SaveProfile(p); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info("profile_created", "name", p.Name)
	out, _ := h.store.GetProfile(p.Name)
	_ = utils.JSONWrite(w, http.StatusCreated, out)
}

func (h *profileHandlers) listProfiles(w http.ResponseWriter, r *http.Request) {
	ps, err := h.store.ListProfiles()
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Profiles []models.Profile `json:"profiles"`
	}{Profiles: ps})
}

func (h *profileHandlers) getProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	p, err := h.store.GetProfile(name)
	if err != nil {
		h.storeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, p)
}

func (h *profileHandlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	p.Name = name
	if err := h.store.SaveProfile(p); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out, _ := h.store.GetProfile(name)
	_ = utils.JSONWrite(w, http.StatusOK, out)
}

func (h *profileHandlers) deleteProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.store.DeleteProfile(name); err != nil {
		h.storeError(w, err)
		return
	}
	logger.Info("profile_deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *profileHandlers) getInventory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	inv, err := h.store.Inventory(name)
	if err != nil {
		h.storeError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Name      string           `json:"name"`
		Inventory models.Inventory `json:"inventory"`
	}{Name: name, Inventory: inv})
}

func (h *profileHandlers) setInventory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var payload struct {
		Inventory models.Inventory `json:"inventory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.store.SetInventory(name, payload.Inventory); err != nil {
		h.storeError(w, err)
		return
	}
	logger.Info("inventory_replaced", "name", name, "words", len(payload.Inventory))
	w.WriteHeader(http.StatusNoContent)
}

func (h *profileHandlers) grantWords(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var payload struct {
		Words  []string `json:"words"`
		Rarity string   `json:"rarity,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(payload.Words) == 0 {
		utils.JSONError(w, http.StatusBadRequest, "words required")
		return
	}
	p, err := h.store.GrantWords(name, payload.Words, payload.Rarity)
	if err != nil {
		h.storeError(w, err)
		return
	}
	logger.Info("words_granted", "name", name, "count", len(payload.Words))
	_ = utils.JSONWrite(w, http.StatusOK, p)
}

func (h *profileHandlers) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSONError(w, http.StatusInternalServerError, err.Error())
}
