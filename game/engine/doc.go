// Package engine provides the core puzzle logic for Chromattis.
//
// The engine package implements the game mechanics including:
//   - Level loading with randomized, never pre-solved boards
//   - Tile taps that advance the color of every targeted tile modulo 7
//   - Win detection and per-level best scores
//   - A last-in-first-out undo history
//   - Level pack validation
//
// Core Types:
//
// The Engine interface defines the main contract for puzzle operations,
// implemented by PuzzleEngine. GameState is the snapshot returned by every
// operation; it never aliases engine memory, so callers may keep and mutate
// it freely. LevelPack and LevelDefinition describe the static catalog the
// engine indexes by position.
//
// Usage:
//
//	eng := engine.NewEngine(levels.Classic().Levels)
//
//	state := eng.LoadLevel(2)
//	state = eng.ClickTile(0)
//	if state.IsWin {
//		fmt.Println("solved in", state.Moves)
//	}
//	state = eng.Undo()
//
// Game Rules:
//
// Every tile carries a color in [0, 7) and a set of target tiles. Tapping a
// tile advances each distinct target by one color, wrapping from 6 to 0. The
// board is solved when all tiles share one color; a solved board ignores
// further taps until it is undone or a level is loaded.
//
// Invalid input is never an error here: unknown level indexes and tile ids
// degrade to no-ops. Callers that want strict feedback validate at their
// own boundary.
package engine
