package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, packID string, levelIndex int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	TapTile(ctx context.Context, sessionID string, tileID int, strict bool) (*TapResult, error)
	Undo(ctx context.Context, sessionID string) (*engine.GameState, error)
	SetPreviewedTile(ctx context.Context, sessionID string, tileID *int) (*engine.GameState, error)

	// Level Navigation
	LoadLevel(ctx context.Context, sessionID string, index int, strict bool) (*engine.GameState, error)
	NextLevel(ctx context.Context, sessionID string) (*engine.GameState, error)
	PrevLevel(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string, redact bool) (*engine.GameState, error)
	Hint(ctx context.Context, sessionID string) (*Hint, error)

	// Progress
	GetProgress(ctx context.Context, sessionID string) (*Progress, error)
	SetBestScores(ctx context.Context, sessionID string, scores engine.BestScores) (*Progress, error)
	ResetProgress(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Level Packs
	ListPacks(ctx context.Context) ([]*PackInfo, error)
	LoadPack(ctx context.Context, packID string) (*engine.LevelPack, error)
	SavePack(ctx context.Context, packID string, pack *engine.LevelPack) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, packID string, pack *engine.LevelPack, levelIndex int) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, packID string, pack *engine.LevelPack, levelIndex int) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// PackManager handles level pack loading
type PackManager interface {
	LoadPack(name string) (*engine.LevelPack, error)
	ListPacks() ([]*PackInfo, error)
	DefaultPackID() string
	SavePack(name string, pack *engine.LevelPack) error
}

// Session represents an active game session.
// Engine access goes through Do; the engine itself is not synchronized.
type Session struct {
	ID             string
	PackID         string
	Engine         engine.Engine
	Pack           *engine.LevelPack
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Do runs fn with exclusive access to the session engine
func (s *Session) Do(fn func(eng engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.Engine)
}

// Snapshot returns the current engine state
func (s *Session) Snapshot() engine.GameState {
	var state engine.GameState
	s.Do(func(eng engine.Engine) {
		state = eng.State()
	})
	return state
}

// Touch sets the last access time
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAccessedAt = now
}

// AccessedAt returns the last access time
func (s *Session) AccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastAccessedAt
}
