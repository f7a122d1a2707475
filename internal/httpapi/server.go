package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pulsemon/pulsemon/internal/daystore"
	"github.com/pulsemon/pulsemon/internal/httpapi/middleware"
	"github.com/pulsemon/pulsemon/internal/ws"
)

type Server struct {
	Logger *zap.Logger
	Store  *daystore.Store
	Hub    *ws.Hub
}

func NewServer(l *zap.Logger, store *daystore.Store, hub *ws.Hub) *Server {
	return &Server{Logger: l, Store: store, Hub: hub}
}

// Router exposes the read-only monitoring surface: a health probe, the
// JSON snapshot endpoints, and the websocket attach point for live
// observers. reqPerMin <= 0 disables rate limiting.
func (s *Server) Router(reqPerMin, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(reqPerMin, burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/history", s.handleHistory)
	r.Get("/ws", s.Hub.ServeHTTP)

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Store.Snapshot())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Store.Days())
}
