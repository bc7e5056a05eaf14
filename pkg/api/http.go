package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"rosechat/pkg/api/handlers"
	"rosechat/pkg/chat"
	"rosechat/pkg/store"
)

// Router assembles the full HTTP surface: websocket endpoint, profile
// CRUD, room introspection, liveness, metrics and API docs.
func Router(room *chat.Room, profiles *store.Store, gateway http.Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Handle("/ws", gateway)
	handlers.RegisterProfiles(v1, profiles)
	handlers.RegisterRoom(v1, room)

	r.Handle("/metrics", promhttp.Handler())
	r.PathPrefix("/docs/").Handler(httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))
	r.Handle("/openapi.yaml", http.FileServer(http.Dir("./docs")))

	return r
}
