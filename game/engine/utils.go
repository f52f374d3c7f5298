package engine

import (
	"maps"
	"slices"
)

// IsUniform reports whether the board is non-empty and every tile shares
// one color
func IsUniform(board []Tile) bool {
	if len(board) == 0 {
		return false
	}
	first := board[0].Color
	for _, t := range board[1:] {
		if t.Color != first {
			return false
		}
	}
	return true
}

// TargetSet deduplicates a target list
func TargetSet(targets []int) map[int]struct{} {
	set := make(map[int]struct{}, len(targets))
	for _, id := range targets {
		set[id] = struct{}{}
	}
	return set
}

// DistinctTargets returns the sorted distinct ids of a target list
func DistinctTargets(targets []int) []int {
	out := slices.Clone(targets)
	slices.Sort(out)
	return slices.Compact(out)
}

// Colors returns the color of each tile in board order
func Colors(board []Tile) []int {
	colors := make([]int, len(board))
	for i, t := range board {
		colors[i] = t.Color
	}
	return colors
}

// CloneBoard deep-copies a board including each tile's target list
func CloneBoard(board []Tile) []Tile {
	if board == nil {
		return nil
	}
	out := make([]Tile, len(board))
	for i, t := range board {
		t.TargetTiles = slices.Clone(t.TargetTiles)
		out[i] = t
	}
	return out
}

// Clone returns a copy of the state that shares no memory with the original
func (gs GameState) Clone() GameState {
	out := gs
	out.Board = CloneBoard(gs.Board)
	out.BestScores = maps.Clone(gs.BestScores)
	if gs.PreviewedTileID != nil {
		id := *gs.PreviewedTileID
		out.PreviewedTileID = &id
	}
	return out
}

// Redacted returns a copy of the state with every tile's target list
// removed, hiding the puzzle topology from a solver
func (gs GameState) Redacted() GameState {
	out := gs.Clone()
	for i := range out.Board {
		out.Board[i].TargetTiles = nil
	}
	return out
}

// BestScore returns the recorded best for a level
func (gs GameState) BestScore(levelIndex int) (int, bool) {
	best, ok := gs.BestScores[levelIndex]
	return best, ok
}
