package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, corsOrigins []string, handler *Handler) *Server {
	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: NewRouter(handler, corsOrigins),
		},
	}
}

// NewRouter builds the route table with middleware applied.
func NewRouter(handler *Handler, corsOrigins []string) http.Handler {
	router := mux.NewRouter()

	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Data refresh
	api.HandleFunc("/status", handler.GetStatus).Methods("GET")
	api.HandleFunc("/refresh", handler.Refresh).Methods("POST")

	// League tables
	api.HandleFunc("/seasons", handler.GetSeasons).Methods("GET")
	api.HandleFunc("/leaders", handler.GetLeaders).Methods("GET")
	api.HandleFunc("/leaders/teams", handler.GetTeamRankings).Methods("GET")
	api.HandleFunc("/records", handler.GetRecords).Methods("GET")

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/{slug}", handler.GetTeam).Methods("GET")

	// Players
	api.HandleFunc("/players", handler.GetPlayers).Methods("GET")
	api.HandleFunc("/players/{slug}", handler.GetPlayer).Methods("GET")

	// Games
	api.HandleFunc("/games", handler.GetGames).Methods("GET")
	api.HandleFunc("/games/{gameID}/boxscore", handler.GetGameBoxScore).Methods("GET")

	// CORS wraps the router so preflight requests are answered before routing.
	return CORSMiddleware(corsOrigins)(router)
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
