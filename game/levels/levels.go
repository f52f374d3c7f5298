package levels

import (
	"slices"

	"github.com/wricardo/mcp-training/chromattis/game/engine"
)

// ClassicPackID identifies the built-in pack
const ClassicPackID = "classic"

var classicLevels = []engine.LevelDefinition{
	{
		ID:    "9a3c75b1-4d41-4176-83dc-ca53a6220071",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0}},
			{ID: 1, TargetTiles: []int{1}},
		},
	},
	{
		ID:    "d5b2cd45-4ff7-4a8b-bf1d-82a64a0d5ea0",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{1}},
			{ID: 1, TargetTiles: []int{0, 1}},
		},
	},
	{
		ID:    "1a49af53-2cbf-4bbd-bfb0-a6ab2094c3c1",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1}},
			{ID: 1, TargetTiles: []int{0, 2}},
			{ID: 2, TargetTiles: []int{2, 1}},
		},
	},
	{
		ID:    "afedc58f-574f-4cbd-a06c-1010fcfdd6e6",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{1, 2}},
			{ID: 1, TargetTiles: []int{0, 2}},
			{ID: 2, TargetTiles: []int{0, 1}},
		},
	},
	{
		ID:    "0024214a-8e4e-427c-99bb-b0222f1ec099",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1}},
			{ID: 1, TargetTiles: []int{1, 2}},
			{ID: 2, TargetTiles: []int{2, 0}},
			{ID: 3, TargetTiles: []int{3, 2}},
		},
	},
	{
		ID:    "61dce9b6-9349-496a-9af3-e942c297e8c6",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{1, 2, 3}},
			{ID: 1, TargetTiles: []int{0, 1, 2}},
			{ID: 2, TargetTiles: []int{2, 3, 0}},
			{ID: 3, TargetTiles: []int{3, 0, 1}},
		},
	},
	{
		ID:    "a3109dd9-b15d-4d80-a0eb-dc6c6f485e76",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1, 3, 4}},
			{ID: 1, TargetTiles: []int{3, 1, 5}},
			{ID: 2, TargetTiles: []int{1, 2, 5}},
			{ID: 3, TargetTiles: []int{0, 3, 4}},
			{ID: 4, TargetTiles: []int{0, 2, 4}},
			{ID: 5, TargetTiles: []int{1, 2, 4, 5}},
		},
	},
	{
		ID:    "50c1e6c9-eb43-41ca-a8ca-e8e4b6b885d4",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1, 2}},
			{ID: 1, TargetTiles: []int{1, 3, 4, 5}},
			{ID: 2, TargetTiles: []int{2, 4, 5}},
			{ID: 3, TargetTiles: []int{1, 3}},
			{ID: 4, TargetTiles: []int{0, 2, 4}},
			{ID: 5, TargetTiles: []int{1, 2, 4, 5}},
		},
	},
	{
		ID:    "d14b2389-234e-4fa8-8d13-6635965ab5b3",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1, 3, 4}},
			{ID: 1, TargetTiles: []int{1, 5}},
			{ID: 2, TargetTiles: []int{1, 2, 4, 5}},
			{ID: 3, TargetTiles: []int{3, 1}},
			{ID: 4, TargetTiles: []int{4, 5}},
			{ID: 5, TargetTiles: []int{5, 7}},
			{ID: 6, TargetTiles: []int{3, 4, 6, 7}},
			{ID: 7, TargetTiles: []int{3, 7}},
			{ID: 8, TargetTiles: []int{4, 5, 7, 8}},
		},
	},
	{
		ID:    "c0b74e6e-4f48-42b2-a971-65993bfcacd2",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1, 3}},
			{ID: 1, TargetTiles: []int{1, 3, 5}},
			{ID: 2, TargetTiles: []int{1, 2, 5}},
			{ID: 3, TargetTiles: []int{1, 3, 7}},
			{ID: 4, TargetTiles: []int{1, 3, 5, 7}},
			{ID: 5, TargetTiles: []int{2, 4, 4, 5, 8}},
			{ID: 6, TargetTiles: []int{3, 6, 7}},
			{ID: 7, TargetTiles: []int{6, 7, 8, 4}},
			{ID: 8, TargetTiles: []int{5, 7, 8}},
		},
	},
	{
		ID:    "4d68914f-f84b-41c1-a921-f69702075562",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1, 4, 5}},
			{ID: 1, TargetTiles: []int{1, 2}},
			{ID: 2, TargetTiles: []int{1, 2}},
			{ID: 3, TargetTiles: []int{2, 3, 6, 7}},
			{ID: 4, TargetTiles: []int{4, 8}},
			{ID: 5, TargetTiles: []int{5, 6, 9, 10}},
			{ID: 6, TargetTiles: []int{5, 6, 9, 10}},
			{ID: 7, TargetTiles: []int{7, 11}},
			{ID: 8, TargetTiles: []int{4, 8}},
			{ID: 9, TargetTiles: []int{5, 6, 9, 10}},
			{ID: 10, TargetTiles: []int{5, 6, 9, 10}},
			{ID: 11, TargetTiles: []int{7, 11}},
			{ID: 12, TargetTiles: []int{8, 9, 12, 13}},
			{ID: 13, TargetTiles: []int{13, 14}},
			{ID: 14, TargetTiles: []int{13, 14}},
			{ID: 15, TargetTiles: []int{10, 11, 14, 15}},
		},
	},
	{
		ID:    "a524afce-86b3-48be-b223-af502cb80829",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1, 2, 3}},
			{ID: 1, TargetTiles: []int{1, 4}},
			{ID: 2, TargetTiles: []int{2, 5, 8}},
			{ID: 3, TargetTiles: []int{3, 6, 9, 12}},
			{ID: 4, TargetTiles: []int{4, 5, 6, 7}},
			{ID: 5, TargetTiles: []int{5, 2, 8}},
			{ID: 6, TargetTiles: []int{6, 3, 9, 12}},
			{ID: 7, TargetTiles: []int{7, 10, 13}},
			{ID: 8, TargetTiles: []int{8, 9, 10, 11}},
			{ID: 9, TargetTiles: []int{9, 3, 6, 12}},
			{ID: 10, TargetTiles: []int{10, 7, 13}},
			{ID: 11, TargetTiles: []int{11, 14}},
			{ID: 12, TargetTiles: []int{12, 13, 14, 15}},
			{ID: 13, TargetTiles: []int{13, 9, 5, 1}},
			{ID: 14, TargetTiles: []int{14, 10, 6, 2}},
			{ID: 15, TargetTiles: []int{15, 11, 7, 3}},
		},
	},
	{
		ID:    "b16b2728-ec5e-4391-a371-147d2138f52e",
		Board: []engine.LevelTile{
			{ID: 0, TargetTiles: []int{0, 1, 2, 5, 6, 10}},
			{ID: 1, TargetTiles: []int{1, 7, 13, 19}},
			{ID: 2, TargetTiles: []int{1, 2, 3, 7}},
			{ID: 3, TargetTiles: []int{3, 7, 11, 15}},
			{ID: 4, TargetTiles: []int{4, 3, 2, 9, 8, 14}},
			{ID: 5, TargetTiles: []int{5, 11, 17, 23}},
			{ID: 6, TargetTiles: []int{0, 1, 2, 5, 6, 7, 10, 11, 12}},
			{ID: 7, TargetTiles: []int{2, 6, 7, 8, 10, 11, 13, 14, 16, 17, 18, 22}},
			{ID: 8, TargetTiles: []int{4, 3, 2, 9, 8, 7, 14, 13, 12}},
			{ID: 9, TargetTiles: []int{9, 13, 17, 21}},
			{ID: 10, TargetTiles: []int{5, 10, 15, 11}},
			{ID: 11, TargetTiles: []int{2, 6, 7, 8, 10, 11, 13, 14, 16, 17, 18, 22}},
			{ID: 12, TargetTiles: []int{0, 4, 6, 8, 12, 16, 18, 20, 24}},
			{ID: 13, TargetTiles: []int{2, 6, 7, 8, 10, 11, 13, 14, 16, 17, 18, 22}},
			{ID: 14, TargetTiles: []int{9, 14, 19, 13}},
			{ID: 15, TargetTiles: []int{3, 7, 11, 15}},
			{ID: 16, TargetTiles: []int{20, 21, 22, 15, 16, 17, 10, 11, 12}},
			{ID: 17, TargetTiles: []int{2, 6, 7, 8, 10, 11, 13, 14, 16, 17, 18, 22}},
			{ID: 18, TargetTiles: []int{24, 23, 22, 19, 18, 17, 14, 13, 12}},
			{ID: 19, TargetTiles: []int{1, 7, 13, 19}},
			{ID: 20, TargetTiles: []int{20, 21, 22, 15, 16, 10}},
			{ID: 21, TargetTiles: []int{9, 13, 17, 21}},
			{ID: 22, TargetTiles: []int{21, 22, 23, 17}},
			{ID: 23, TargetTiles: []int{5, 11, 17, 23}},
			{ID: 24, TargetTiles: []int{24, 23, 22, 19, 18, 14}},
		},
	},
}

// Classic returns a fresh copy of the built-in level pack
func Classic() *engine.LevelPack {
	levels := make([]engine.LevelDefinition, len(classicLevels))
	for i, level := range classicLevels {
		board := make([]engine.LevelTile, len(level.Board))
		for j, tile := range level.Board {
			tile.TargetTiles = slices.Clone(tile.TargetTiles)
			board[j] = tile
		}
		levels[i] = engine.LevelDefinition{ID: level.ID, Board: board}
	}

	return &engine.LevelPack{
		Name:        "Classic",
		Description: "The original thirteen Chromattis puzzles",
		Levels:      levels,
	}
}
