package engine

const (
	// PaletteSize is the number of tile colors; colors live in [0, PaletteSize).
	PaletteSize = 7

	// Validation constants
	MinTiles            = 1
	MaxTiles            = 64
	MaxLevels           = 256
	WebSocketBufferSize = 256
)

// Tile is a single board cell
type Tile struct {
	ID          int   `json:"id"`
	Color       int   `json:"color"`
	TargetTiles []int `json:"target_tiles,omitempty"` // ids advanced when this tile is tapped
}

// LevelTile is the authored form of a tile inside a level definition
type LevelTile struct {
	ID          int   `json:"id" yaml:"id"`
	TargetTiles []int `json:"target_tiles" yaml:"target_tiles"`

	// StartColor is part of the level data but the engine randomizes colors
	// on load instead of reading it.
	StartColor int `json:"start_color" yaml:"start_color"`
}

// LevelDefinition is an immutable level from a catalog
type LevelDefinition struct {
	ID    string      `json:"id" yaml:"id"`
	Board []LevelTile `json:"board" yaml:"board"`
}

// LevelPack is an ordered catalog of levels loaded from a pack file
type LevelPack struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Levels      []LevelDefinition `json:"levels" yaml:"levels"`
}

// BestScores maps a level index to the fewest moves it was ever won in.
// A missing key means the level has not been won yet.
type BestScores map[int]int

// GameState is the externally visible engine snapshot
type GameState struct {
	LevelIndex      int        `json:"level_index"`
	Board           []Tile     `json:"board"`
	Moves           int        `json:"moves"`
	IsWin           bool       `json:"is_win"`
	BestScores      BestScores `json:"best_scores"`
	PreviewedTileID *int       `json:"previewed_tile_id"`
}

// HistoryEntry is the board and move count saved before a tap
type HistoryEntry struct {
	Board []Tile `json:"board"`
	Moves int    `json:"moves"`
}
