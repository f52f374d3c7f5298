package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/levels"
	"github.com/wricardo/mcp-training/chromattis/game/service"
)

var (
	ErrPackNotFound = service.ErrPackNotFound
	ErrInvalidPack  = service.ErrInvalidPack
)

// Extensions lists the pack file extensions in lookup order
var Extensions = []string{".json", ".yaml", ".yml"}

// Manager handles level pack loading and caching
type Manager struct {
	packDir   string
	defaultID string
	packs     map[string]*engine.LevelPack
	mu        sync.RWMutex
}

// NewManager creates a new pack manager. A missing directory is not an
// error; only the built-in pack is available until packs are saved.
func NewManager(packDir string) (*Manager, error) {
	if info, err := os.Stat(packDir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("levels path is not a directory: %s", packDir)
	} else if os.IsNotExist(err) {
		slog.Warn("levels directory does not exist, using built-in packs only", "dir", packDir)
	}

	m := &Manager{
		packDir:   packDir,
		defaultID: levels.ClassicPackID,
		packs:     make(map[string]*engine.LevelPack),
	}

	if _, err := m.LoadPack(m.defaultID); err != nil {
		return nil, fmt.Errorf("failed to load default pack: %w", err)
	}

	return m, nil
}

// LoadPack loads a pack by id. Files in the levels directory take
// precedence over the built-in pack of the same id.
func (m *Manager) LoadPack(name string) (*engine.LevelPack, error) {
	name = packID(name)
	if !validPackID(name) {
		return nil, fmt.Errorf("%w: %s", ErrPackNotFound, name)
	}

	m.mu.RLock()
	// Check cache first
	if pack, exists := m.packs[name]; exists {
		m.mu.RUnlock()
		return pack, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if pack, exists := m.packs[name]; exists {
		return pack, nil
	}

	pack, err := m.readPack(name)
	if err != nil {
		return nil, err
	}

	m.packs[name] = pack
	return pack, nil
}

// ListPacks returns information about all available packs
func (m *Manager) ListPacks() ([]*service.PackInfo, error) {
	entries, err := os.ReadDir(m.packDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	var packs []*service.PackInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !hasPackExtension(entry.Name()) {
			continue
		}

		id := packID(entry.Name())
		if seen[id] {
			continue
		}

		pack, err := m.LoadPack(id)
		if err != nil {
			// Skip invalid packs
			slog.Warn("skipping invalid level pack", "file", entry.Name(), "err", err)
			continue
		}
		seen[id] = true

		packs = append(packs, &service.PackInfo{
			Filename:    entry.Name(),
			PackID:      id,
			Name:        pack.Name,
			Description: pack.Description,
			LevelCount:  len(pack.Levels),
		})
	}

	if !seen[levels.ClassicPackID] {
		classic := levels.Classic()
		packs = append(packs, &service.PackInfo{
			PackID:      levels.ClassicPackID,
			Name:        classic.Name,
			Description: classic.Description,
			LevelCount:  len(classic.Levels),
			Builtin:     true,
		})
	}

	sort.Slice(packs, func(i, j int) bool { return packs[i].PackID < packs[j].PackID })
	return packs, nil
}

// GetDefault returns the default pack
func (m *Manager) GetDefault() *engine.LevelPack {
	pack, err := m.LoadPack(m.DefaultPackID())
	if err != nil {
		return levels.Classic()
	}
	return pack
}

// DefaultPackID returns the id of the default pack
func (m *Manager) DefaultPackID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default pack by id
func (m *Manager) SetDefault(name string) error {
	if _, err := m.LoadPack(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = packID(name)
	return nil
}

// RefreshCache drops every cached pack so the next load reads from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.packs = make(map[string]*engine.LevelPack)
	m.mu.Unlock()

	_, err := m.LoadPack(m.DefaultPackID())
	return err
}

// SavePack validates a pack and writes it to disk as JSON
func (m *Manager) SavePack(name string, pack *engine.LevelPack) error {
	name = packID(name)
	if !validPackID(name) {
		return fmt.Errorf("%w: bad pack id %q", ErrInvalidPack, name)
	}

	assignLevelIDs(name, pack)
	if err := engine.ValidateLevelPack(pack); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}

	if err := os.MkdirAll(m.packDir, 0755); err != nil {
		return fmt.Errorf("failed to create levels directory: %w", err)
	}

	data, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pack: %w", err)
	}

	packPath := filepath.Join(m.packDir, name+".json")
	if err := os.WriteFile(packPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write pack file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.packs[name] = pack
	m.mu.Unlock()

	return nil
}

// Count returns the number of cached packs
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.packs)
}

// readPack finds and parses the file for a pack id. Callers hold the lock.
func (m *Manager) readPack(name string) (*engine.LevelPack, error) {
	for _, ext := range Extensions {
		path := filepath.Join(m.packDir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read pack file: %w", err)
		}

		pack, err := ParsePack(data, ext)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPack, filepath.Base(path), err)
		}
		assignLevelIDs(name, pack)
		if err := engine.ValidateLevelPack(pack); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPack, filepath.Base(path), err)
		}

		if dups := countDuplicates(pack); dups > 0 {
			slog.Debug("pack has duplicate target entries", "pack", name, "duplicates", dups)
		}
		return pack, nil
	}

	if name == levels.ClassicPackID {
		return levels.Classic(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPackNotFound, name)
}

// ParsePack decodes pack file contents according to the file extension
func ParsePack(data []byte, ext string) (*engine.LevelPack, error) {
	var pack engine.LevelPack
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("failed to parse pack: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("failed to parse pack: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported pack format %q", ext)
	}
	return &pack, nil
}

// LevelID returns the stable id given to a level that has none
func LevelID(packName string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("chromattis:%s/%d", packName, index))).String()
}

func assignLevelIDs(packName string, pack *engine.LevelPack) {
	if pack == nil {
		return
	}
	for i := range pack.Levels {
		if pack.Levels[i].ID == "" {
			pack.Levels[i].ID = LevelID(packName, i)
		}
	}
}

func countDuplicates(pack *engine.LevelPack) int {
	total := 0
	for _, level := range pack.Levels {
		total += engine.DuplicateTargets(level)
	}
	return total
}

// validPackID reports whether name names a file directly inside the
// levels directory
func validPackID(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func packID(name string) string {
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

func hasPackExtension(filename string) bool {
	return packID(filename) != filename
}
