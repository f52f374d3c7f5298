package session

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/levels"
)

func TestManagerWithPersistence(t *testing.T) {
	persistence, packs, dir := newTestPersistence(t)
	manager := NewManagerWithPersistence(persistence)
	classic := packs.GetDefault()

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1", levels.ClassicPackID, classic, 3)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if !persistence.Exists(session.ID) {
			t.Error("Session should be auto-saved on creation")
		}

		loaded, err := persistence.Load(session.ID)
		if err != nil {
			t.Fatalf("Failed to load auto-saved session: %v", err)
		}
		if loaded.Snapshot().LevelIndex != 3 {
			t.Errorf("Expected level 3, got %d", loaded.Snapshot().LevelIndex)
		}
	})

	t.Run("Get Session Loads from Persistence", func(t *testing.T) {
		// New manager with no in-memory sessions
		manager2 := NewManagerWithPersistence(persistence)

		session, err := manager2.Get("AUTO1")
		if err != nil {
			t.Fatalf("Failed to get session from persistence: %v", err)
		}
		if session.ID != "auto1" {
			t.Errorf("Expected ID auto1, got %s", session.ID)
		}
		if manager2.Count() != 1 {
			t.Errorf("Loaded session should be cached, count %d", manager2.Count())
		}
	})

	t.Run("Update Last Accessed Saves Progress", func(t *testing.T) {
		session, _ := manager.Get("auto1")
		session.Do(func(eng engine.Engine) {
			eng.LoadLevel(5)
			eng.SetBestScores(engine.BestScores{3: 7})
		})
		if err := manager.UpdateLastAccessed("auto1"); err != nil {
			t.Fatalf("UpdateLastAccessed failed: %v", err)
		}

		loaded, err := persistence.Load("auto1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		state := loaded.Snapshot()
		if state.LevelIndex != 5 || state.BestScores[3] != 7 {
			t.Errorf("Progress not persisted: level %d scores %v", state.LevelIndex, state.BestScores)
		}
	})

	t.Run("Delete Removes File", func(t *testing.T) {
		if _, err := manager.Create("del1", levels.ClassicPackID, classic, 0); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := manager.Delete("del1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists("del1") {
			t.Error("Session file should be deleted")
		}
	})

	t.Run("Delete Persisted Only", func(t *testing.T) {
		if _, err := manager.Create("disk1", levels.ClassicPackID, classic, 0); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := manager.DeleteFromMemory("disk1"); err != nil {
			t.Fatalf("DeleteFromMemory failed: %v", err)
		}
		if !persistence.Exists("disk1") {
			t.Fatal("File should survive DeleteFromMemory")
		}
		if err := manager.Delete("disk1"); err != nil {
			t.Errorf("Delete of persisted-only session failed: %v", err)
		}
	})

	t.Run("Load Persisted Sessions", func(t *testing.T) {
		manager3 := NewManagerWithPersistence(persistence)
		if err := manager3.LoadPersistedSessions(); err != nil {
			t.Fatalf("LoadPersistedSessions failed: %v", err)
		}
		if _, err := manager3.Get("auto1"); err != nil {
			t.Errorf("Expected auto1 to be loaded: %v", err)
		}
	})

	t.Run("Sync With Storage", func(t *testing.T) {
		if _, err := manager.Create("sync1", levels.ClassicPackID, classic, 0); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := os.Remove(filepath.Join(dir, "sync1.json")); err != nil {
			t.Fatalf("Failed to remove session file: %v", err)
		}

		if pruned := manager.SyncWithStorage(); pruned != 1 {
			t.Errorf("Expected 1 pruned session, got %d", pruned)
		}
		if _, err := manager.Get("sync1"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected sync1 to be gone, got %v", err)
		}
		if _, err := manager.Get("auto1"); err != nil {
			t.Errorf("auto1 should survive sync: %v", err)
		}
	})

	t.Run("Save All Sessions", func(t *testing.T) {
		if err := manager.SaveAllSessions(); err != nil {
			t.Fatalf("SaveAllSessions failed: %v", err)
		}
		for _, s := range manager.List() {
			if !persistence.Exists(s.ID) {
				t.Errorf("Session %s not saved", s.ID)
			}
		}
	})
}

func TestManager_CreateKeepsEvictedSession(t *testing.T) {
	persistence, packs, _ := newTestPersistence(t)
	manager := NewManagerWithPersistence(persistence)
	classic := packs.GetDefault()

	session, err := manager.Create("beef", levels.ClassicPackID, classic, 5)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	session.Do(func(eng engine.Engine) {
		eng.SetBestScores(engine.BestScores{0: 3, 4: 9})
	})
	if err := manager.Save("beef"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if removed := manager.CleanupExpiredSessions(-time.Minute); removed != 1 {
		t.Fatalf("Expected 1 evicted session, got %d", removed)
	}

	if _, err := manager.Create("BEEF", levels.ClassicPackID, classic, 0); !errors.Is(err, ErrSessionAlreadyExists) {
		t.Fatalf("Expected ErrSessionAlreadyExists for evicted id, got %v", err)
	}

	restored, err := manager.Get("beef")
	if err != nil {
		t.Fatalf("Failed to reload evicted session: %v", err)
	}
	state := restored.Snapshot()
	if state.LevelIndex != 5 {
		t.Errorf("Expected level 5 after reload, got %d", state.LevelIndex)
	}
	if state.BestScores[0] != 3 || state.BestScores[4] != 9 {
		t.Errorf("Best scores lost: %v", state.BestScores)
	}
}

func TestManager_GeneratedIDsSkipPersisted(t *testing.T) {
	persistence, packs, _ := newTestPersistence(t)
	manager := NewManagerWithPersistence(persistence)

	if err := persistence.Save(newClassicSession(t, packs, "cafe", 0)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !manager.persisted("CAFE") {
		t.Fatal("Expected cafe to be reported as persisted")
	}
	if manager.persisted("f00d") {
		t.Error("Unsaved id must not be reported as persisted")
	}

	for i := 0; i < 200; i++ {
		if id := manager.generateSessionID(); id == "cafe" {
			t.Fatal("Generated id collides with a persisted session")
		}
	}
}

func TestManager_ReloadUsesEngineOptions(t *testing.T) {
	persistence, packs, _ := newTestPersistence(t)
	if err := persistence.Save(newClassicSession(t, packs, "seed", 7)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reload := func() engine.GameState {
		t.Helper()
		manager := NewManagerWithPersistence(persistence, engine.WithRand(rand.New(rand.NewPCG(42, 99))))
		session, err := manager.Get("seed")
		if err != nil {
			t.Fatalf("Failed to reload session: %v", err)
		}
		return session.Snapshot()
	}

	first, second := reload(), reload()
	if first.LevelIndex != 7 {
		t.Fatalf("Expected level 7, got %d", first.LevelIndex)
	}
	if !reflect.DeepEqual(engine.Colors(first.Board), engine.Colors(second.Board)) {
		t.Errorf("Seeded reloads differ: %v vs %v", engine.Colors(first.Board), engine.Colors(second.Board))
	}
}
