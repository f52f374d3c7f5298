package session

import (
	"time"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID, building its engine
	// with opts
	Load(id string, opts ...engine.Option) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions.
// Only progress is stored; the board is re-randomized on load.
type PersistedSessionData struct {
	ID             string            `json:"id"`
	PackID         string            `json:"pack_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	LevelIndex     int               `json:"level_index"`
	BestScores     engine.BestScores `json:"best_scores"`
}
