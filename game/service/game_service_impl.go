package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/solver"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	packs    PackManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, packs PackManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		packs:    packs,
	}
}

// CreateSession creates a new game session on the given pack and level
func (s *gameServiceImpl) CreateSession(ctx context.Context, packID string, levelIndex int) (*SessionInfo, error) {
	if packID == "" {
		packID = s.packs.DefaultPackID()
	}

	pack, err := s.packs.LoadPack(packID)
	if err != nil {
		if errors.Is(err, ErrPackNotFound) {
			return nil, fmt.Errorf("pack '%s' not found (available: %v): %w", packID, s.packIDs(), err)
		}
		return nil, fmt.Errorf("failed to load pack %s: %w", packID, err)
	}

	if levelIndex < 0 || levelIndex >= len(pack.Levels) {
		return nil, fmt.Errorf("%w: %d (pack %s has %d levels)", ErrInvalidLevelIndex, levelIndex, packID, len(pack.Levels))
	}

	// Let session manager generate a 4-character ID
	sess, err := s.sessions.Create("", packID, pack, levelIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.touch(sess)
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// TapTile taps a tile and reports what happened
func (s *gameServiceImpl) TapTile(ctx context.Context, sessionID string, tileID int, strict bool) (*TapResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var (
		before, after engine.GameState
		invalid       bool
	)
	sess.Do(func(eng engine.Engine) {
		before = eng.State()
		if strict && !hasTile(before.Board, tileID) {
			invalid = true
			return
		}
		after = eng.ClickTile(tileID)
	})
	if invalid {
		return nil, fmt.Errorf("%w: %d (board has %d tiles)", ErrInvalidTileID, tileID, len(before.Board))
	}

	result := &TapResult{
		TileID:    tileID,
		Applied:   after.Moves != before.Moves,
		GameState: &after,
		Events:    tapEvents(before, after, tileID),
	}
	result.Message = result.Events[len(result.Events)-1].Message

	if !before.IsWin && after.IsWin {
		s.touch(sess)
	}
	return result, nil
}

// Undo reverts the last tap
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var state engine.GameState
	sess.Do(func(eng engine.Engine) {
		state = eng.Undo()
	})
	return &state, nil
}

// SetPreviewedTile records or clears the hovered tile
func (s *gameServiceImpl) SetPreviewedTile(ctx context.Context, sessionID string, tileID *int) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var state engine.GameState
	sess.Do(func(eng engine.Engine) {
		state = eng.SetPreviewedTile(tileID)
	})
	return &state, nil
}

// LoadLevel starts the level at index with a fresh board
func (s *gameServiceImpl) LoadLevel(ctx context.Context, sessionID string, index int, strict bool) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var (
		state engine.GameState
		count int
	)
	sess.Do(func(eng engine.Engine) {
		count = eng.LevelCount()
		if strict && (index < 0 || index >= count) {
			return
		}
		state = eng.LoadLevel(index)
	})
	if strict && (index < 0 || index >= count) {
		return nil, fmt.Errorf("%w: %d (pack has %d levels)", ErrInvalidLevelIndex, index, count)
	}

	s.touch(sess)
	return &state, nil
}

// NextLevel advances to the following level; no-op on the last one
func (s *gameServiceImpl) NextLevel(ctx context.Context, sessionID string) (*engine.GameState, error) {
	return s.step(sessionID, 1)
}

// PrevLevel returns to the preceding level; no-op on the first one
func (s *gameServiceImpl) PrevLevel(ctx context.Context, sessionID string) (*engine.GameState, error) {
	return s.step(sessionID, -1)
}

func (s *gameServiceImpl) step(sessionID string, delta int) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var (
		state engine.GameState
		moved bool
	)
	sess.Do(func(eng engine.Engine) {
		state = eng.State()
		target := state.LevelIndex + delta
		if target < 0 || target >= eng.LevelCount() {
			return
		}
		state = eng.LoadLevel(target)
		moved = true
	})

	if moved {
		s.touch(sess)
	}
	return &state, nil
}

// GetGameState returns the current state, optionally without tile targets
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string, redact bool) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Snapshot()
	if redact {
		state = state.Redacted()
	}
	return &state, nil
}

// Hint solves the current board and suggests the next tap
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*Hint, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Snapshot()
	hint := &Hint{LevelIndex: state.LevelIndex}

	if state.IsWin {
		hint.Solvable = true
		hint.Message = "Level already solved"
		return hint, nil
	}

	sol, err := solver.Solve(state.Board)
	if err != nil {
		if errors.Is(err, solver.ErrUnsolvable) {
			hint.Message = "No sequence of taps makes this board uniform"
			return hint, nil
		}
		return nil, fmt.Errorf("failed to solve level %d: %w", state.LevelIndex, err)
	}

	hint.Solvable = true
	hint.Solution = sol
	if next, ok := sol.NextTap(); ok {
		hint.NextTileID = &next
		hint.Message = fmt.Sprintf("Tap tile %d (%d moves to go)", next, sol.Moves)
	} else {
		hint.Message = "Board is already uniform"
	}
	return hint, nil
}

// GetProgress returns the persisted progress of a session
func (s *gameServiceImpl) GetProgress(ctx context.Context, sessionID string) (*Progress, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return progress(sess), nil
}

// SetBestScores replaces the best-score record of a session
func (s *gameServiceImpl) SetBestScores(ctx context.Context, sessionID string, scores engine.BestScores) (*Progress, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Do(func(eng engine.Engine) {
		eng.SetBestScores(scores)
	})
	s.touch(sess)
	return progress(sess), nil
}

// ResetProgress clears best scores and returns to the first level
func (s *gameServiceImpl) ResetProgress(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var state engine.GameState
	sess.Do(func(eng engine.Engine) {
		eng.SetBestScores(engine.BestScores{})
		state = eng.LoadLevel(0)
	})
	s.touch(sess)
	return &state, nil
}

// ListPacks returns all available level packs
func (s *gameServiceImpl) ListPacks(ctx context.Context) ([]*PackInfo, error) {
	return s.packs.ListPacks()
}

// LoadPack loads a level pack by id
func (s *gameServiceImpl) LoadPack(ctx context.Context, packID string) (*engine.LevelPack, error) {
	return s.packs.LoadPack(packID)
}

// SavePack validates and stores a level pack
func (s *gameServiceImpl) SavePack(ctx context.Context, packID string, pack *engine.LevelPack) error {
	if packID == "" {
		return fmt.Errorf("%w: pack id is required", ErrInvalidPack)
	}
	if err := engine.ValidateLevelPack(pack); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	return s.packs.SavePack(packID, pack)
}

func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sess, nil
}

// touch refreshes the access time and persists the session. It must not
// be called while holding the session lock.
func (s *gameServiceImpl) touch(sess *Session) {
	if err := s.sessions.UpdateLastAccessed(sess.ID); err != nil {
		slog.Warn("failed to persist session", "session", sess.ID, "err", err)
	}
}

func (s *gameServiceImpl) packIDs() []string {
	infos, err := s.packs.ListPacks()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.PackID)
	}
	return ids
}

func sessionInfo(sess *Session) *SessionInfo {
	state := sess.Snapshot()
	info := &SessionInfo{
		ID:             sess.ID,
		PackID:         sess.PackID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.AccessedAt(),
		GameState:      &state,
	}
	if sess.Pack != nil {
		info.PackName = sess.Pack.Name
		info.LevelCount = len(sess.Pack.Levels)
	}
	return info
}

func progress(sess *Session) *Progress {
	var (
		state engine.GameState
		count int
	)
	sess.Do(func(eng engine.Engine) {
		state = eng.State()
		count = eng.LevelCount()
	})

	solved := 0
	for level := range state.BestScores {
		if level >= 0 && level < count {
			solved++
		}
	}

	return &Progress{
		LevelIndex: state.LevelIndex,
		LevelCount: count,
		Solved:     solved,
		BestScores: state.BestScores,
	}
}

func tapEvents(before, after engine.GameState, tileID int) []GameEvent {
	now := time.Now()
	event := func(typ, msg string) GameEvent {
		return GameEvent{
			Type:       typ,
			Message:    msg,
			Timestamp:  now,
			LevelIndex: after.LevelIndex,
			Moves:      after.Moves,
		}
	}

	switch {
	case before.IsWin:
		return []GameEvent{event(EventNoop, "Board is already solved")}
	case after.Moves == before.Moves:
		return []GameEvent{event(EventNoop, fmt.Sprintf("No tile with id %d", tileID))}
	}

	events := []GameEvent{event(EventTap, fmt.Sprintf("Tapped tile %d", tileID))}
	if !after.IsWin {
		return events
	}

	events = append(events, event(EventWin, fmt.Sprintf("Level %d solved in %d moves", after.LevelIndex+1, after.Moves)))
	prev, hadPrev := before.BestScore(before.LevelIndex)
	if best, ok := after.BestScore(after.LevelIndex); ok && best == after.Moves && (!hadPrev || best < prev) {
		events = append(events, event(EventNewBest, fmt.Sprintf("New best: %d moves", best)))
	}
	return events
}

func hasTile(board []engine.Tile, id int) bool {
	for _, t := range board {
		if t.ID == id {
			return true
		}
	}
	return false
}
