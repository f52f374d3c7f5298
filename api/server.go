package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/service"
	"github.com/wricardo/mcp-training/chromattis/transport/websocket"
)

// Broadcaster pushes session updates to live subscribers
type Broadcaster interface {
	BroadcastToSession(sessionID string, state *engine.GameState)
	BroadcastEvent(sessionID string, event string, data interface{})
}

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	events  Broadcaster
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, which disables the
// websocket endpoint and live updates.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}
	if hub != nil {
		s.events = hub
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/tap", s.handleTap).Methods("POST")
	api.HandleFunc("/sessions/{id}/undo", s.handleUndo).Methods("POST")
	api.HandleFunc("/sessions/{id}/preview", s.handlePreview).Methods("POST")
	api.HandleFunc("/sessions/{id}/hint", s.handleHint).Methods("GET")

	// Level navigation
	api.HandleFunc("/sessions/{id}/level", s.handleLoadLevel).Methods("POST")
	api.HandleFunc("/sessions/{id}/next", s.handleNextLevel).Methods("POST")
	api.HandleFunc("/sessions/{id}/prev", s.handlePrevLevel).Methods("POST")

	// Progress
	api.HandleFunc("/sessions/{id}/progress", s.handleGetProgress).Methods("GET")
	api.HandleFunc("/sessions/{id}/progress", s.handleSetProgress).Methods("PUT")
	api.HandleFunc("/sessions/{id}/progress", s.handleResetProgress).Methods("DELETE")

	// Level packs
	api.HandleFunc("/packs", s.handleListPacks).Methods("GET")
	api.HandleFunc("/packs", s.handleCreatePack).Methods("POST")
	api.HandleFunc("/packs/{name}", s.handleGetPack).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrPackNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTileID),
		errors.Is(err, service.ErrInvalidLevelIndex),
		errors.Is(err, service.ErrInvalidPack):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// queryBool reads a boolean query flag; anything unparsable is false
func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// decodeBody decodes an optional JSON body. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) broadcastState(sessionID string, state *engine.GameState) {
	if s.events != nil && state != nil {
		s.events.BroadcastToSession(sessionID, state)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PackID     string `json:"pack_id,omitempty"`
		LevelIndex int    `json:"level_index,omitempty"`
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.service.CreateSession(r.Context(), req.PackID, req.LevelIndex)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	slog.Info("session created", "session", session.ID, "pack", session.PackID, "level", req.LevelIndex)
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	total := len(sessions)

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	// Set defaults
	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	// Apply limit if specified
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	if s.events != nil {
		s.events.BroadcastEvent(sessionID, websocket.EventSessionGone, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID, queryBool(r, "redact"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		TileID *int `json:"tile_id"`
	}

	if err := decodeBody(r, &req); err != nil || req.TileID == nil {
		respondError(w, http.StatusBadRequest, "Request body must be {\"tile_id\": <integer>}")
		return
	}

	result, err := s.service.TapTile(r.Context(), sessionID, *req.TileID, queryBool(r, "strict"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, result.GameState)

	slog.Debug("tap",
		"session", sessionID,
		"tile", result.TileID,
		"applied", result.Applied,
		"moves", result.GameState.Moves,
		"win", result.GameState.IsWin)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Undo(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		TileID *int `json:"tile_id"`
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.SetPreviewedTile(r.Context(), sessionID, req.TileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	hint, err := s.service.Hint(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, hint)
}

// Level Handlers

func (s *Server) handleLoadLevel(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Index *int `json:"index"`
	}

	if err := decodeBody(r, &req); err != nil || req.Index == nil {
		respondError(w, http.StatusBadRequest, "Request body must be {\"index\": <integer>}")
		return
	}

	state, err := s.service.LoadLevel(r.Context(), sessionID, *req.Index, queryBool(r, "strict"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleNextLevel(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.NextLevel(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handlePrevLevel(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.PrevLevel(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

// Progress Handlers

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	progress, err := s.service.GetProgress(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

func (s *Server) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		BestScores engine.BestScores `json:"best_scores"`
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	for level, moves := range req.BestScores {
		if moves < 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("best score for level %d must not be negative", level))
			return
		}
	}

	progress, err := s.service.SetBestScores(r.Context(), sessionID, req.BestScores)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if state, err := s.service.GetGameState(r.Context(), sessionID, false); err == nil {
		s.broadcastState(sessionID, state)
	}
	respondJSON(w, http.StatusOK, progress)
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.ResetProgress(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Progress reset",
		"state":   state,
	})
}

// Pack Handlers

func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := s.service.ListPacks(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, packs)
}

func (s *Server) handleGetPack(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	pack, err := s.service.LoadPack(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pack)
}

func (s *Server) handleCreatePack(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string            `json:"name"`
		Pack *engine.LevelPack `json:"pack"`
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Pack == nil {
		respondError(w, http.StatusBadRequest, "Both name and pack are required")
		return
	}

	if err := s.service.SavePack(r.Context(), req.Name, req.Pack); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Level pack saved",
		"pack_id":     req.Name,
		"level_count": len(req.Pack.Levels),
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket disabled", http.StatusNotFound)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	// Upgrade to WebSocket and push the current state
	s.hub.ServeWS(w, r, session.ID)
	s.hub.BroadcastToSession(session.ID, session.GameState)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
