// Package server implements the backend HTTP service: the durable
// snapshot document, the JSON API the client syncs against and a
// websocket feed of data changes.
package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"resolvex/internal/health"
)

// Server routes API requests over the document store and pushes change
// events to websocket subscribers.
type Server struct {
	doc      *DocumentStore
	router   *mux.Router
	hub      *Hub
	upgrader websocket.Upgrader
	monitor  *health.Monitor
}

// New creates a server over the given document store and starts the
// websocket hub.
func New(doc *DocumentStore) *Server {
	s := &Server{
		doc:     doc,
		router:  mux.NewRouter(),
		hub:     newHub(),
		monitor: health.NewMonitor(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.setupRoutes()
	go s.hub.run()

	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// /complaints/sync before /complaints/{id} so "sync" never matches
	// as an id.
	api.HandleFunc("/complaints/sync", s.handleSyncComplaints).Methods("POST")
	api.HandleFunc("/complaints", s.handleGetComplaints).Methods("GET")
	api.HandleFunc("/complaints", s.handleCreateComplaint).Methods("POST")
	api.HandleFunc("/complaints/{id}", s.handleUpdateComplaint).Methods("PUT")
	api.HandleFunc("/complaints/{id}", s.handleDeleteComplaint).Methods("DELETE")

	api.HandleFunc("/settings", s.handleGetSettings).Methods("GET")
	api.HandleFunc("/settings", s.handleSaveSettings).Methods("POST")

	api.HandleFunc("/ab_stats", s.handleGetABStats).Methods("GET")
	api.HandleFunc("/ab_stats", s.handleSaveABStats).Methods("POST")

	api.HandleFunc("/db", s.handleGetDB).Methods("GET")
	api.HandleFunc("/db", s.handlePutDB).Methods("PUT")

	api.HandleFunc("/summary.png", s.handleSummaryImage).Methods("GET")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts serving on the given port.
func (s *Server) ListenAndServe(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.router)
}
