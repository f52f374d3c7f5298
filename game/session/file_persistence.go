package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/service"
)

// DefaultSessionsDir returns the sessions directory under the XDG data home
func DefaultSessionsDir() string {
	return filepath.Join(xdg.DataHome, "chromattis", "sessions")
}

// FilePersistence implements SessionPersistence using file system storage
type FilePersistence struct {
	sessionsDir string
	packs       service.PackManager
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string, packs service.PackManager) (*FilePersistence, error) {
	// Create sessions directory if it doesn't exist
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir: sessionsDir,
		packs:       packs,
	}, nil
}

// Save persists a session's progress to a JSON file
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	state := session.Snapshot()
	data := PersistedSessionData{
		ID:             session.ID,
		PackID:         session.PackID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.AccessedAt(),
		LevelIndex:     state.LevelIndex,
		BestScores:     state.BestScores,
	}

	// Marshal to JSON with indentation for readability
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	// Write to a temp file first so readers never see a partial session
	filePath := fp.getFilePath(session.ID)
	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load rebuilds a session from its JSON file. The level is loaded fresh and
// the best scores are restored on top of it.
func (fp *FilePersistence) Load(id string, opts ...engine.Option) (*service.Session, error) {
	filePath := fp.getFilePath(id)

	// Read file
	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	// Unmarshal JSON
	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	if data.PackID == "" {
		data.PackID = fp.packs.DefaultPackID()
	}

	// Load the level pack
	pack, err := fp.packs.LoadPack(data.PackID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pack '%s': %w", data.PackID, err)
	}

	eng := engine.NewEngine(pack.Levels, opts...)
	eng.LoadLevel(data.LevelIndex)
	eng.SetBestScores(data.BestScores)

	if data.ID == "" {
		data.ID = id
	}

	return &service.Session{
		ID:             data.ID,
		PackID:         data.PackID,
		Engine:         eng,
		Pack:           pack,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	// Check if file exists
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}

	// Remove file
	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessionIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			// Remove .json extension to get session ID
			sessionIDs = append(sessionIDs, strings.TrimSuffix(name, ".json"))
		}
	}

	return sessionIDs, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

// getFilePath returns the full file path for a session ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", strings.ToLower(id)))
}
