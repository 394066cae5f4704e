package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/mystats/internal/service"
	"github.com/fortuna/mystats/internal/store"
)

// Refresher reloads the data snapshot on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
	GetStatus() map[string]interface{}
}

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store            *store.Store
	refresher        Refresher
	cache            HealthChecker
	gameService      *service.GameService
	playerService    *service.PlayerService
	teamService      *service.TeamService
	statsService     *service.StatsService
	analyticsService *service.AnalyticsService
}

// NewHandler creates a new handler. refresher may be nil, in which case the
// refresh endpoint reports 503.
func NewHandler(st *store.Store, boxScores service.BoxScoreLoader, refresher Refresher) *Handler {
	return &Handler{
		store:            st,
		refresher:        refresher,
		gameService:      service.NewGameService(st, boxScores),
		playerService:    service.NewPlayerService(st),
		teamService:      service.NewTeamService(st),
		statsService:     service.NewStatsService(st),
		analyticsService: service.NewAnalyticsService(st),
	}
}

// WithCache adds the sheet cache to health reports.
func (h *Handler) WithCache(c HealthChecker) *Handler {
	h.cache = c
	return h
}

// HealthCheck handles health check requests. An unreachable cache is
// reported but does not make the service unhealthy.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "healthy",
		"service": "mystats",
		"loaded":  false,
	}
	if h.cache != nil {
		body["cache"] = "ok"
		if err := h.cache.HealthCheck(r.Context()); err != nil {
			body["cache"] = err.Error()
		}
	}

	snap, err := h.store.Snapshot()
	if err != nil {
		// Serving, but nothing to serve yet.
		body["status"] = "loading"
		respondJSON(w, http.StatusServiceUnavailable, body)
		return
	}

	body["loaded"] = true
	body["loaded_at"] = snap.LoadedAt.Format(time.RFC3339)
	body["snapshot_age"] = time.Since(snap.LoadedAt).Round(time.Second).String()
	body["players"] = len(snap.Players)
	body["records"] = len(snap.Records)
	respondJSON(w, http.StatusOK, body)
}

// GetStatus reports the refresh scheduler state
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"loaded": h.store.Loaded()})
		return
	}
	respondJSON(w, http.StatusOK, h.refresher.GetStatus())
}

// Refresh reloads every source now
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondError(w, http.StatusServiceUnavailable, "Refresh is not available", nil)
		return
	}

	if err := h.refresher.Refresh(r.Context()); err != nil {
		log.Printf("[api] ❌ Refresh failed: %v", err)
		respondError(w, http.StatusBadGateway, "Failed to refresh data", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Data refreshed",
		"status":  h.refresher.GetStatus(),
	})
}

// GetSeasons returns every season with data
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.statsService.Seasons()
	if err != nil {
		h.handleError(w, "Failed to fetch seasons", err)
		return
	}
	respondJSON(w, http.StatusOK, seasons)
}

// GetLeaders returns the player leaderboard for one stat
func (h *Handler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	q, err := leadersQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	board, err := h.statsService.GetLeaders(q)
	if err != nil {
		h.handleError(w, "Failed to build leaderboard", err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// GetTeamRankings returns the team leaderboard for one stat
func (h *Handler) GetTeamRankings(w http.ResponseWriter, r *http.Request) {
	q, err := leadersQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	rankings, err := h.analyticsService.GetTeamRankings(q)
	if err != nil {
		h.handleError(w, "Failed to build team rankings", err)
		return
	}
	respondJSON(w, http.StatusOK, rankings)
}

// GetRecords returns the season highs, optionally for one team
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	records, err := h.statsService.GetRecords(service.RecordsQuery{
		Query: query(r),
		Team:  params.Get("team"),
	})
	if err != nil {
		h.handleError(w, "Failed to fetch records", err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// GetTeams returns all teams
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams()
	if err != nil {
		h.handleError(w, "Failed to fetch teams", err)
		return
	}
	respondJSON(w, http.StatusOK, teams)
}

// GetTeam returns a team page
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	page, err := h.teamService.GetTeam(slug, query(r))
	if err != nil {
		h.handleError(w, "Failed to fetch team", err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetPlayers returns the roster, optionally for one team
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.ListPlayers(r.URL.Query().Get("team"))
	if err != nil {
		h.handleError(w, "Failed to fetch players", err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

// GetPlayer returns a player page
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	page, err := h.playerService.GetPlayer(slug, query(r))
	if err != nil {
		h.handleError(w, "Failed to fetch player", err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetGames returns the box score index
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.ListGames(query(r), r.URL.Query().Get("team"))
	if err != nil {
		h.handleError(w, "Failed to fetch games", err)
		return
	}
	respondJSON(w, http.StatusOK, games)
}

// GetGameBoxScore returns one game's box score
func (h *Handler) GetGameBoxScore(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	box, err := h.gameService.GetBoxScore(r.Context(), gameID)
	if err != nil {
		h.handleError(w, "Failed to fetch box score", err)
		return
	}
	respondJSON(w, http.StatusOK, box)
}

// handleError maps service errors onto status codes.
func (h *Handler) handleError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, service.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, store.ErrNotLoaded):
		respondError(w, http.StatusServiceUnavailable, "Data is still loading", err)
	default:
		log.Printf("[api] ❌ %s: %v", message, err)
		respondError(w, http.StatusInternalServerError, message, err)
	}
}

func query(r *http.Request) service.Query {
	params := r.URL.Query()
	return service.Query{
		Season: params.Get("season"),
		Phase:  params.Get("phase"),
	}
}

func leadersQuery(r *http.Request) (service.LeadersQuery, error) {
	params := r.URL.Query()
	q := service.LeadersQuery{
		Query: query(r),
		Team:  params.Get("team"),
		Stat:  params.Get("stat"),
		Mode:  params.Get("mode"),
	}

	if limitStr := params.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return q, fmt.Errorf("limit must be a non-negative integer, got %q", limitStr)
		}
		q.Limit = limit
	}
	return q, nil
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
