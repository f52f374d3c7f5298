package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/levels"
)

func createTestPack() *engine.LevelPack {
	return &engine.LevelPack{
		Name: "Session Test",
		Levels: []engine.LevelDefinition{
			{ID: "one", Board: []engine.LevelTile{{ID: 0, TargetTiles: []int{0}}, {ID: 1, TargetTiles: []int{0, 1}}}},
			{ID: "two", Board: []engine.LevelTile{{ID: 0, TargetTiles: []int{1}}, {ID: 1, TargetTiles: []int{0}}, {ID: 2, TargetTiles: []int{2}}}},
		},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	t.Run("generated id", func(t *testing.T) {
		session, err := manager.Create("", "test", pack, 0)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %q", session.ID)
		}
		if session.PackID != "test" || session.Pack != pack {
			t.Error("Session should reference its pack")
		}
		if session.CreatedAt.IsZero() || session.LastAccessedAt.IsZero() {
			t.Error("Timestamps should be set")
		}
	})

	t.Run("explicit id and level", func(t *testing.T) {
		session, err := manager.Create("Mine", "test", pack, 1)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "mine" {
			t.Errorf("Expected normalized id mine, got %s", session.ID)
		}
		if state := session.Snapshot(); state.LevelIndex != 1 || len(state.Board) != 3 {
			t.Errorf("Expected level 1 with 3 tiles, got level %d with %d tiles", state.LevelIndex, len(state.Board))
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		if _, err := manager.Create("MINE", "test", pack, 0); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		for _, id := range []string{"../etc", "a b", "x/y"} {
			if _, err := manager.Create(id, "test", pack, 0); !errors.Is(err, ErrInvalidSessionID) {
				t.Errorf("Expected ErrInvalidSessionID for %q, got %v", id, err)
			}
		}
	})

	t.Run("nil pack", func(t *testing.T) {
		if _, err := manager.Create("", "test", nil, 0); err == nil {
			t.Error("Expected error for nil pack")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("abcd", "test", createTestPack(), 0)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	for _, id := range []string{"abcd", "ABCD", "AbCd"} {
		got, err := manager.Get(id)
		if err != nil {
			t.Errorf("Get(%q) failed: %v", id, err)
			continue
		}
		if got != created {
			t.Errorf("Get(%q) returned a different session", id)
		}
	}

	if _, err := manager.Get("zzzz"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if _, err := manager.Get("../x"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for invalid id, got %v", err)
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	first, err := manager.GetOrCreate("same", "test", pack, 0)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	second, err := manager.GetOrCreate("same", "test", pack, 1)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if first != second {
		t.Error("GetOrCreate should return the existing session")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", manager.Count())
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	if _, err := manager.Create("gone", "test", createTestPack(), 0); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := manager.Delete("GONE"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
	if err := manager.Delete("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
	if err := manager.DeleteFromMemory("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from DeleteFromMemory, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	for i := 0; i < 3; i++ {
		if _, err := manager.Create(fmt.Sprintf("s%d", i), "test", pack, 0); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	seen := map[string]bool{}
	for _, s := range sessions {
		seen[s.ID] = true
	}
	for i := 0; i < 3; i++ {
		if !seen[fmt.Sprintf("s%d", i)] {
			t.Errorf("Missing session s%d", i)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	old, _ := manager.Create("old", "test", pack, 0)
	if _, err := manager.Create("new", "test", pack, 0); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	old.Touch(time.Now().Add(-2 * time.Hour))

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if _, err := manager.Get("old"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expired session should be removed")
	}
	if _, err := manager.Get("new"); err != nil {
		t.Error("Fresh session should remain")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("touch", "test", createTestPack(), 0)
	session.Touch(time.Now().Add(-time.Hour))
	before := session.AccessedAt()

	if err := manager.UpdateLastAccessed("touch"); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}
	if !session.AccessedAt().After(before) {
		t.Error("LastAccessedAt should advance")
	}

	if err := manager.UpdateLastAccessed("none"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	pack := levels.Classic()

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session, err := manager.Create(fmt.Sprintf("c%02d", i), levels.ClassicPackID, pack, i%len(pack.Levels))
			if err != nil {
				errs <- err
				return
			}
			session.Do(func(eng engine.Engine) {
				eng.ClickTile(0)
			})
			if err := manager.UpdateLastAccessed(session.ID); err != nil {
				errs <- err
			}
			manager.List()
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent operation failed: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager(engine.WithRand(rand.New(rand.NewPCG(7, 7))))
	pack := createTestPack()

	a, _ := manager.Create("a", "test", pack, 0)
	b, _ := manager.Create("b", "test", pack, 0)

	a.Do(func(eng engine.Engine) {
		eng.ClickTile(1)
		eng.SetBestScores(engine.BestScores{0: 4})
	})

	if state := b.Snapshot(); state.Moves != 0 || len(state.BestScores) != 0 {
		t.Errorf("Session b should be untouched, got %+v", state)
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		session, err := manager.Create("", "test", pack, 0)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if ids[session.ID] {
			t.Fatalf("Duplicate session ID %s", session.ID)
		}
		ids[session.ID] = true
	}
}
