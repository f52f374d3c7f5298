package service

import (
	"errors"
	"time"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/solver"
)

// Errors shared by the service and its storage backends
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrPackNotFound      = errors.New("level pack not found")
	ErrInvalidPack       = errors.New("invalid level pack")
	ErrInvalidTileID     = errors.New("invalid tile id")
	ErrInvalidLevelIndex = errors.New("invalid level index")
)

// Event types reported by TapResult
const (
	EventTap     = "tap"
	EventNoop    = "noop"
	EventWin     = "win"
	EventNewBest = "new_best"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	PackID         string            `json:"pack_id"`
	PackName       string            `json:"pack_name"`
	LevelCount     int               `json:"level_count"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// TapResult contains the result of a tap
type TapResult struct {
	TileID    int               `json:"tile_id"`
	Applied   bool              `json:"applied"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type       string    `json:"type"` // "tap", "noop", "win", "new_best"
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	LevelIndex int       `json:"level_index"`
	Moves      int       `json:"moves"`
}

// Progress is the persisted part of a session
type Progress struct {
	LevelIndex int               `json:"level_index"`
	LevelCount int               `json:"level_count"`
	Solved     int               `json:"solved"`
	BestScores engine.BestScores `json:"best_scores"`
}

// Hint suggests the next tap toward a minimal solution
type Hint struct {
	LevelIndex int              `json:"level_index"`
	Solvable   bool             `json:"solvable"`
	NextTileID *int             `json:"next_tile_id,omitempty"`
	Solution   *solver.Solution `json:"solution,omitempty"`
	Message    string           `json:"message"`
}

// PackInfo provides information about a level pack
type PackInfo struct {
	Filename    string `json:"filename,omitempty"`
	PackID      string `json:"pack_id"` // The identifier to use for session creation
	Name        string `json:"name"`    // Display name
	Description string `json:"description"`
	LevelCount  int    `json:"level_count"`
	Builtin     bool   `json:"builtin,omitempty"`
}
