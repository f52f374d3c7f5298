package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxIDLength bounds caller-chosen session ids
const maxIDLength = 64

// Manager handles game session lifecycle
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	engineOpts  []engine.Option
	mu          sync.RWMutex
}

// NewManager creates a new session manager
func NewManager(opts ...engine.Option) *Manager {
	return &Manager{
		sessions:   make(map[string]*service.Session),
		engineOpts: opts,
	}
}

// NewManagerWithPersistence creates a new session manager with persistence
func NewManagerWithPersistence(persistence SessionPersistence, opts ...engine.Option) *Manager {
	m := NewManager(opts...)
	m.persistence = persistence
	return m
}

// Create creates a new session on the given pack, starting at levelIndex
func (m *Manager) Create(id, packID string, pack *engine.LevelPack, levelIndex int) (*service.Session, error) {
	if pack == nil {
		return nil, fmt.Errorf("pack cannot be nil")
	}
	if id == "" {
		id = m.generateSessionID()
	}
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()

	// Check if session already exists (case-insensitive). An evicted
	// session still owns its file and reloads on the next Get.
	if _, exists := m.sessions[strings.ToLower(id)]; exists || m.persisted(id) {
		m.mu.Unlock()
		return nil, ErrSessionAlreadyExists
	}

	eng := engine.NewEngine(pack.Levels, m.engineOpts...)
	if levelIndex != 0 {
		eng.LoadLevel(levelIndex)
	}

	now := time.Now()
	session := &service.Session{
		ID:             strings.ToLower(id),
		PackID:         packID,
		Engine:         eng,
		Pack:           pack,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.sessions[session.ID] = session
	m.mu.Unlock()

	// Auto-save if persistence is enabled
	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			// Log error but don't fail the creation
			slog.Warn("failed to persist session", "session", session.ID, "err", err)
		}
	}

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	if !validID(id) {
		return nil, ErrSessionNotFound
	}
	key := strings.ToLower(id)

	m.mu.RLock()
	session, exists := m.sessions[key]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	// Try loading from persistence if not in memory
	if m.persistence != nil && m.persistence.Exists(key) {
		loaded, err := m.persistence.Load(key, m.engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		// Another caller may have loaded it first
		if session, exists := m.sessions[key]; exists {
			return session, nil
		}
		m.sessions[key] = loaded
		return loaded, nil
	}

	return nil, ErrSessionNotFound
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id, packID string, pack *engine.LevelPack, levelIndex int) (*service.Session, error) {
	// Try to get existing session first
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	// Create new session if not found
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, packID, pack, levelIndex)
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session from memory and storage
func (m *Manager) Delete(id string) error {
	if !validID(id) {
		return ErrSessionNotFound
	}
	key := strings.ToLower(id)

	m.mu.Lock()
	_, inMemory := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()

	// Delete from persistence if it exists
	if m.persistence != nil && m.persistence.Exists(key) {
		if err := m.persistence.Delete(key); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	// If not in persistence and not in memory, it doesn't exist
	if !inMemory {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteFromMemory removes a session from memory only (not from persistence)
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// UpdateLastAccessed updates the last accessed time and persists the session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}

	session.Touch(time.Now())

	// Auto-save if persistence is enabled
	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			return fmt.Errorf("failed to persist session %s: %w", session.ID, err)
		}
	}

	return nil
}

// Save saves a specific session to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}

	return m.persistence.Save(session)
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the
// given duration. Persisted files are kept so the session can be reloaded.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.AccessedAt().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// SyncWithStorage drops in-memory sessions whose persisted file has been
// removed from storage and returns how many were dropped
func (m *Manager) SyncWithStorage() int {
	if m.persistence == nil {
		return 0
	}

	pruned := 0
	for _, session := range m.List() {
		if m.persistence.Exists(session.ID) {
			continue
		}
		if err := m.DeleteFromMemory(session.ID); err == nil {
			pruned++
			slog.Debug("pruned session from memory", "session", session.ID, "reason", "file deleted")
		}
	}
	return pruned
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loadedCount := 0
	for _, id := range sessionIDs {
		key := strings.ToLower(id)
		// Skip if already loaded in memory
		if _, exists := m.sessions[key]; exists {
			continue
		}

		session, err := m.persistence.Load(id, m.engineOpts...)
		if err != nil {
			slog.Warn("failed to load persisted session", "session", id, "err", err)
			continue
		}

		m.sessions[key] = session
		loadedCount++
	}

	if loadedCount > 0 {
		slog.Info("loaded persisted sessions", "count", loadedCount)
	}

	return nil
}

// SaveAllSessions saves all in-memory sessions to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	errorCount := 0
	for _, session := range m.List() {
		if err := m.persistence.Save(session); err != nil {
			slog.Warn("failed to save session", "session", session.ID, "err", err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for {
		// Generate 2 random bytes (4 hex characters)
		bytes := make([]byte, 2)
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if _, exists := m.sessions[id]; !exists && !m.persisted(id) {
			return id
		}
	}
}

// persisted reports whether storage holds a session with this id
func (m *Manager) persisted(id string) bool {
	return m.persistence != nil && m.persistence.Exists(strings.ToLower(id))
}

// validID accepts ids made of letters, digits, '-' and '_'
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
