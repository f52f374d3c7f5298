package engine

import (
	"maps"
	"math/rand/v2"
)

// Engine provides the main interface for puzzle operations
type Engine interface {
	// Level management
	LoadLevel(index int) GameState
	LevelCount() int
	Level(index int) (LevelDefinition, bool)

	// Moves
	ClickTile(tileID int) GameState
	Undo() GameState
	CountMoves() int

	// UI hints and progress
	SetPreviewedTile(tileID *int) GameState
	SetBestScores(scores BestScores)

	State() GameState
}

var _ Engine = (*PuzzleEngine)(nil)

// Option configures a PuzzleEngine
type Option func(*PuzzleEngine)

// WithRand sets the random source used to color freshly loaded boards
func WithRand(r *rand.Rand) Option {
	return func(e *PuzzleEngine) {
		if r != nil {
			e.rng = r
		}
	}
}

// PuzzleEngine implements the Engine interface.
//
// It is not safe for concurrent use; callers that share an engine must
// serialize access.
type PuzzleEngine struct {
	levels  []LevelDefinition
	state   GameState
	history []HistoryEntry
	rng     *rand.Rand
}

// NewEngine creates an engine over the given level catalog and loads the
// first level
func NewEngine(levels []LevelDefinition, opts ...Option) *PuzzleEngine {
	e := &PuzzleEngine{
		levels: levels,
		state: GameState{
			Board:      []Tile{},
			BestScores: BestScores{},
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e.LoadLevel(0)
	return e
}

// LoadLevel builds a freshly colored board for the level at index.
// An unknown index leaves the state untouched.
func (e *PuzzleEngine) LoadLevel(index int) GameState {
	if index < 0 || index >= len(e.levels) {
		return e.State()
	}
	level := e.levels[index]

	var board []Tile
	for {
		board = e.randomBoard(level)
		// A single tile is trivially uniform; accept it rather than loop.
		if len(board) <= 1 || !IsUniform(board) {
			break
		}
	}

	e.state.LevelIndex = index
	e.state.Board = board
	e.state.Moves = 0
	e.state.IsWin = false
	e.state.PreviewedTileID = nil
	e.history = nil

	return e.State()
}

// ClickTile taps a tile, advancing the color of every tile it targets.
// Taps on a won board are ignored; taps on an unknown id only record history.
func (e *PuzzleEngine) ClickTile(tileID int) GameState {
	if e.state.IsWin {
		return e.State()
	}

	e.history = append(e.history, HistoryEntry{
		Board: e.state.Board,
		Moves: e.state.Moves,
	})

	tile, ok := findTile(e.state.Board, tileID)
	if !ok {
		return e.State()
	}

	targets := TargetSet(tile.TargetTiles)
	board := make([]Tile, len(e.state.Board))
	for i, t := range e.state.Board {
		if _, hit := targets[t.ID]; hit {
			t.Color = (t.Color + 1) % PaletteSize
		}
		board[i] = t
	}

	e.state.Board = board
	e.state.Moves++
	e.state.IsWin = IsUniform(board)

	if e.state.IsWin {
		best, recorded := e.state.BestScores[e.state.LevelIndex]
		if !recorded || e.state.Moves < best {
			if e.state.BestScores == nil {
				e.state.BestScores = BestScores{}
			}
			e.state.BestScores[e.state.LevelIndex] = e.state.Moves
		}
	}

	return e.State()
}

// Undo restores the board and move count from before the last tap and
// always reopens the board
func (e *PuzzleEngine) Undo() GameState {
	if len(e.history) == 0 {
		return e.State()
	}

	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]

	e.state.Board = last.Board
	e.state.Moves = last.Moves
	e.state.IsWin = false

	return e.State()
}

// SetPreviewedTile records the hovered tile. The id is not validated.
func (e *PuzzleEngine) SetPreviewedTile(tileID *int) GameState {
	if tileID == nil {
		e.state.PreviewedTileID = nil
	} else {
		id := *tileID
		e.state.PreviewedTileID = &id
	}
	return e.State()
}

// SetBestScores replaces the whole best-score record
func (e *PuzzleEngine) SetBestScores(scores BestScores) {
	e.state.BestScores = maps.Clone(scores)
}

// State returns a snapshot of the current state
func (e *PuzzleEngine) State() GameState {
	return e.state.Clone()
}

// CountMoves returns the number of undoable taps
func (e *PuzzleEngine) CountMoves() int {
	return len(e.history)
}

// LevelCount returns the size of the level catalog
func (e *PuzzleEngine) LevelCount() int {
	return len(e.levels)
}

// Level returns the catalog entry at index
func (e *PuzzleEngine) Level(index int) (LevelDefinition, bool) {
	if index < 0 || index >= len(e.levels) {
		return LevelDefinition{}, false
	}
	return e.levels[index], true
}

func (e *PuzzleEngine) randomBoard(level LevelDefinition) []Tile {
	board := make([]Tile, len(level.Board))
	for i, lt := range level.Board {
		board[i] = Tile{
			ID:          lt.ID,
			Color:       e.rng.IntN(PaletteSize),
			TargetTiles: lt.TargetTiles,
		}
	}
	return board
}

func findTile(board []Tile, id int) (Tile, bool) {
	for _, t := range board {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}
