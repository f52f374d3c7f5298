// Package solver finds minimal tap sequences for Chromattis boards.
//
// With a prime palette size the puzzle is a linear system over GF(7):
// tapping tile j adds one to every tile it targets, so a board b reaches the
// uniform color c exactly when A·x ≡ c·1 − b (mod 7), where A[i][j] is 1 when
// tile j targets tile i and x[j] counts the taps on tile j. Taps commute and
// seven taps on one tile are a no-op, which is why a solution is a vector of
// per-tile counts rather than an ordered sequence.
package solver

import (
	"errors"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
)

const modulus = engine.PaletteSize

// MaxFreeVariables bounds the exhaustive search over the null space.
// Beyond it free variables are fixed at zero and the result may not be
// minimal.
const MaxFreeVariables = 4

var (
	ErrEmptyBoard = errors.New("board has no tiles")
	ErrUnsolvable = errors.New("board cannot reach a uniform color")
)

// Solution assigns a tap count to every tile
type Solution struct {
	Presses     []int `json:"presses"`
	TargetColor int   `json:"target_color"`
	Moves       int   `json:"moves"`
	Optimal     bool  `json:"optimal"`
}

// Sequence expands the tap counts into an ordered list of tile ids
func (s *Solution) Sequence() []int {
	seq := make([]int, 0, s.Moves)
	for id, n := range s.Presses {
		for range n {
			seq = append(seq, id)
		}
	}
	return seq
}

// NextTap returns the first tile that still needs tapping
func (s *Solution) NextTap() (int, bool) {
	for id, n := range s.Presses {
		if n > 0 {
			return id, true
		}
	}
	return 0, false
}

// Solve returns the tap counts with the fewest total taps that make the
// board uniform. Tile ids are assumed dense and positional.
func Solve(board []engine.Tile) (*Solution, error) {
	n := len(board)
	if n == 0 {
		return nil, ErrEmptyBoard
	}

	colors := engine.Colors(board)
	a := incidence(n, func(j int) []int { return board[j].TargetTiles })

	var best *Solution
	for c := 0; c < modulus; c++ {
		aug := make([][]int, n)
		for i := range aug {
			row := make([]int, n+1)
			copy(row, a[i])
			row[n] = mod(c - colors[i])
			aug[i] = row
		}

		pivots := rref(aug, n)
		if !consistent(aug, n, len(pivots)) {
			continue
		}

		candidate := minimalAssignment(aug, n, pivots)
		candidate.TargetColor = c
		if best == nil || candidate.Moves < best.Moves {
			best = candidate
		}
	}

	if best == nil {
		return nil, ErrUnsolvable
	}
	return best, nil
}

// Rank returns the rank over GF(7) of the level's incidence matrix
func Rank(level engine.LevelDefinition) int {
	n := len(level.Board)
	a := incidence(n, func(j int) []int { return level.Board[j].TargetTiles })
	return len(rref(a, n))
}

// AlwaysSolvable reports whether every coloring of the level can be made
// uniform. That holds when the incidence columns together with the all-ones
// vector span the whole space.
func AlwaysSolvable(level engine.LevelDefinition) bool {
	n := len(level.Board)
	if n == 0 {
		return false
	}
	a := incidence(n, func(j int) []int { return level.Board[j].TargetTiles })
	for i := range a {
		a[i] = append(a[i], 1)
	}
	return len(rref(a, n+1)) == n
}

// incidence builds A with A[i][j] = 1 when tile j targets tile i.
// Duplicate and out-of-range targets are ignored.
func incidence(n int, targets func(j int) []int) [][]int {
	a := make([][]int, n)
	for i := range a {
		a[i] = make([]int, n)
	}
	for j := 0; j < n; j++ {
		for i := range engine.TargetSet(targets(j)) {
			if i >= 0 && i < n {
				a[i][j] = 1
			}
		}
	}
	return a
}

// rref reduces m in place over the first cols columns and returns the pivot
// column of each leading row
func rref(m [][]int, cols int) []int {
	var pivots []int
	row := 0
	for col := 0; col < cols && row < len(m); col++ {
		sel := -1
		for r := row; r < len(m); r++ {
			if m[r][col] != 0 {
				sel = r
				break
			}
		}
		if sel < 0 {
			continue
		}
		m[row], m[sel] = m[sel], m[row]

		inv := inverse(m[row][col])
		for k := range m[row] {
			m[row][k] = m[row][k] * inv % modulus
		}

		for r := range m {
			if r == row || m[r][col] == 0 {
				continue
			}
			f := m[r][col]
			for k := range m[r] {
				m[r][k] = mod(m[r][k] - f*m[row][k])
			}
		}

		pivots = append(pivots, col)
		row++
	}
	return pivots
}

// consistent reports whether no zero row of a reduced augmented matrix
// carries a non-zero right-hand side
func consistent(aug [][]int, cols, rank int) bool {
	for r := rank; r < len(aug); r++ {
		if aug[r][cols] != 0 {
			return false
		}
	}
	return true
}

func minimalAssignment(aug [][]int, n int, pivots []int) *Solution {
	isPivot := make([]bool, n)
	for _, pc := range pivots {
		isPivot[pc] = true
	}
	var free []int
	for col := 0; col < n; col++ {
		if !isPivot[col] {
			free = append(free, col)
		}
	}

	searched := free
	optimal := true
	if len(free) > MaxFreeVariables {
		searched = nil
		optimal = false
	}

	x := make([]int, n)
	var best []int
	bestMoves := -1

	digits := make([]int, len(searched))
	for {
		for i, col := range searched {
			x[col] = digits[i]
		}
		for r, pc := range pivots {
			v := aug[r][n]
			for _, f := range free {
				v -= aug[r][f] * x[f]
			}
			x[pc] = mod(v)
		}

		moves := 0
		for _, v := range x {
			moves += v
		}
		if bestMoves < 0 || moves < bestMoves {
			bestMoves = moves
			best = append(best[:0], x...)
		}

		if !increment(digits) {
			break
		}
	}

	return &Solution{
		Presses: best,
		Moves:   bestMoves,
		Optimal: optimal,
	}
}

// increment advances a base-7 counter and reports false on overflow
func increment(digits []int) bool {
	for i := range digits {
		digits[i]++
		if digits[i] < modulus {
			return true
		}
		digits[i] = 0
	}
	return false
}

func inverse(a int) int {
	// Fermat: a^(p-2) mod p
	result := 1
	base := mod(a)
	for e := modulus - 2; e > 0; e >>= 1 {
		if e&1 == 1 {
			result = result * base % modulus
		}
		base = base * base % modulus
	}
	return result
}

func mod(v int) int {
	v %= modulus
	if v < 0 {
		v += modulus
	}
	return v
}
