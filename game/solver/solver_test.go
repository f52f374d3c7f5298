package solver

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/levels"
)

func boardFrom(level engine.LevelDefinition, colors ...int) []engine.Tile {
	board := make([]engine.Tile, len(level.Board))
	for i, lt := range level.Board {
		board[i] = engine.Tile{ID: lt.ID, Color: colors[i], TargetTiles: lt.TargetTiles}
	}
	return board
}

// apply taps the solution onto a copy of the board
func apply(board []engine.Tile, presses []int) []int {
	colors := engine.Colors(board)
	for j, n := range presses {
		for i := range engine.TargetSet(board[j].TargetTiles) {
			colors[i] = (colors[i] + n) % engine.PaletteSize
		}
	}
	return colors
}

func uniform(colors []int) bool {
	for _, c := range colors {
		if c != colors[0] {
			return false
		}
	}
	return true
}

func TestSolve_Independent(t *testing.T) {
	level := levels.Classic().Levels[0]
	board := boardFrom(level, 2, 5)

	solution, err := Solve(board)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if solution.Moves != 3 {
		t.Errorf("Expected 3 moves, got %d", solution.Moves)
	}
	if solution.TargetColor != 5 {
		t.Errorf("Expected target color 5, got %d", solution.TargetColor)
	}
	if solution.Presses[0] != 3 || solution.Presses[1] != 0 {
		t.Errorf("Expected presses [3 0], got %v", solution.Presses)
	}
	if !solution.Optimal {
		t.Error("Expected optimal solution")
	}
}

func TestSolve_Triangle(t *testing.T) {
	level := levels.Classic().Levels[2]
	board := boardFrom(level, 0, 0, 1)

	solution, err := Solve(board)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if solution.Moves != 1 {
		t.Errorf("Expected 1 move, got %d", solution.Moves)
	}
	if next, ok := solution.NextTap(); !ok || next != 0 {
		t.Errorf("Expected next tap on tile 0, got %d (ok=%v)", next, ok)
	}
}

func TestSolve_AlreadyUniform(t *testing.T) {
	level := levels.Classic().Levels[0]

	solution, err := Solve(boardFrom(level, 4, 4))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if solution.Moves != 0 {
		t.Errorf("Expected 0 moves, got %d", solution.Moves)
	}
	if _, ok := solution.NextTap(); ok {
		t.Error("Expected no next tap")
	}
	if len(solution.Sequence()) != 0 {
		t.Errorf("Expected empty sequence, got %v", solution.Sequence())
	}
}

func TestSolve_EmptyBoard(t *testing.T) {
	if _, err := Solve(nil); !errors.Is(err, ErrEmptyBoard) {
		t.Errorf("Expected ErrEmptyBoard, got %v", err)
	}
}

func TestSolve_Unsolvable(t *testing.T) {
	// Tile 0 and tile 1 always move together
	level := engine.LevelDefinition{
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1}},
			{ID: 1, TargetTiles: []int{0, 1}},
		},
	}

	if _, err := Solve(boardFrom(level, 0, 3)); !errors.Is(err, ErrUnsolvable) {
		t.Errorf("Expected ErrUnsolvable, got %v", err)
	}
	if AlwaysSolvable(level) {
		t.Error("Expected coupled level not to be always solvable")
	}
	if Rank(level) != 1 {
		t.Errorf("Expected rank 1, got %d", Rank(level))
	}
}

func TestSolve_DuplicateTargetsCountOnce(t *testing.T) {
	level := engine.LevelDefinition{
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 0, 0}},
			{ID: 1, TargetTiles: []int{1}},
		},
	}

	solution, err := Solve(boardFrom(level, 5, 6))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if solution.Moves != 1 || solution.Presses[0] != 1 {
		t.Errorf("Expected a single tap on tile 0, got %v", solution.Presses)
	}
}

func TestSolve_ClassicRandomBoards(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for index, level := range levels.Classic().Levels {
		if !AlwaysSolvable(level) {
			continue
		}
		for trial := 0; trial < 20; trial++ {
			colors := make([]int, len(level.Board))
			for i := range colors {
				colors[i] = rng.IntN(engine.PaletteSize)
			}
			board := boardFrom(level, colors...)

			solution, err := Solve(board)
			if err != nil {
				t.Fatalf("level %d colors %v: %v", index, colors, err)
			}
			result := apply(board, solution.Presses)
			if !uniform(result) {
				t.Fatalf("level %d colors %v: presses %v gave %v", index, colors, solution.Presses, result)
			}
			if result[0] != solution.TargetColor {
				t.Errorf("level %d: expected target color %d, got %d", index, solution.TargetColor, result[0])
			}
			if len(solution.Sequence()) != solution.Moves {
				t.Errorf("level %d: sequence length %d does not match moves %d", index, len(solution.Sequence()), solution.Moves)
			}
		}
	}
}

func TestSolve_PlaysThroughEngine(t *testing.T) {
	pack := levels.Classic()
	eng := engine.NewEngine(pack.Levels, engine.WithRand(rand.New(rand.NewPCG(3, 4))))

	for index := range pack.Levels {
		state := eng.LoadLevel(index)
		solution, err := Solve(state.Board)
		if errors.Is(err, ErrUnsolvable) {
			continue
		}
		if err != nil {
			t.Fatalf("level %d: %v", index, err)
		}

		for _, id := range solution.Sequence() {
			state = eng.ClickTile(id)
		}
		if !state.IsWin {
			t.Errorf("level %d: expected win after %d taps, colors %v", index, solution.Moves, engine.Colors(state.Board))
		}
		if state.Moves > solution.Moves {
			t.Errorf("level %d: expected at most %d moves, got %d", index, solution.Moves, state.Moves)
		}
	}
}

func TestRank_Identity(t *testing.T) {
	level := levels.Classic().Levels[0]
	if Rank(level) != 2 {
		t.Errorf("Expected rank 2, got %d", Rank(level))
	}
	if !AlwaysSolvable(level) {
		t.Error("Expected identity level to be always solvable")
	}
}

func TestInverse(t *testing.T) {
	for a := 1; a < modulus; a++ {
		if a*inverse(a)%modulus != 1 {
			t.Errorf("inverse(%d) = %d is wrong", a, inverse(a))
		}
	}
}
