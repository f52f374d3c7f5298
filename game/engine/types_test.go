package engine

import (
	"encoding/json"
	"testing"
)

func TestValidationConstants(t *testing.T) {
	tests := []struct {
		name     string
		actual   int
		expected int
	}{
		{"PaletteSize", PaletteSize, 7},
		{"MinTiles", MinTiles, 1},
		{"MaxTiles", MaxTiles, 64},
		{"MaxLevels", MaxLevels, 256},
		{"WebSocketBufferSize", WebSocketBufferSize, 256},
	}

	for _, test := range tests {
		if test.actual != test.expected {
			t.Errorf("%s: expected %d, got %d", test.name, test.expected, test.actual)
		}
	}
}

func TestGameStateJSONMarshaling(t *testing.T) {
	preview := 2
	state := GameState{
		LevelIndex: 3,
		Board: []Tile{
			{ID: 0, Color: 1, TargetTiles: []int{0, 1}},
			{ID: 1, Color: 6},
		},
		Moves:           4,
		IsWin:           false,
		BestScores:      BestScores{3: 9},
		PreviewedTileID: &preview,
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to unmarshal state: %v", err)
	}

	for _, key := range []string{"level_index", "board", "moves", "is_win", "best_scores", "previewed_tile_id"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Expected key %q in JSON output", key)
		}
	}

	scores, _ := raw["best_scores"].(map[string]any)
	if scores["3"] != float64(9) {
		t.Errorf("Expected best_scores[\"3\"] = 9, got %v", scores["3"])
	}

	var decoded GameState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode state: %v", err)
	}
	if decoded.BestScores[3] != 9 {
		t.Errorf("Expected decoded best score 9, got %v", decoded.BestScores)
	}
	if decoded.PreviewedTileID == nil || *decoded.PreviewedTileID != 2 {
		t.Errorf("Expected decoded preview 2, got %v", decoded.PreviewedTileID)
	}
}

func TestGameState_NullPreview(t *testing.T) {
	data, err := json.Marshal(GameState{})
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	var raw map[string]any
	json.Unmarshal(data, &raw)
	if v, ok := raw["previewed_tile_id"]; !ok || v != nil {
		t.Errorf("Expected previewed_tile_id to be null, got %v", v)
	}
}

func TestGameState_Redacted(t *testing.T) {
	state := GameState{
		Board: []Tile{
			{ID: 0, Color: 1, TargetTiles: []int{0, 1}},
			{ID: 1, Color: 2, TargetTiles: []int{1}},
		},
	}

	redacted := state.Redacted()
	for _, tile := range redacted.Board {
		if tile.TargetTiles != nil {
			t.Errorf("Expected tile %d targets removed, got %v", tile.ID, tile.TargetTiles)
		}
	}
	if state.Board[0].TargetTiles == nil {
		t.Error("Expected original state untouched")
	}

	data, _ := json.Marshal(redacted)
	var raw map[string]any
	json.Unmarshal(data, &raw)
	board := raw["board"].([]any)
	if _, ok := board[0].(map[string]any)["target_tiles"]; ok {
		t.Error("Expected target_tiles omitted from redacted JSON")
	}
}

func TestIsUniform(t *testing.T) {
	tests := []struct {
		name   string
		colors []int
		want   bool
	}{
		{"empty", nil, false},
		{"single", []int{3}, true},
		{"equal", []int{2, 2, 2}, true},
		{"mixed", []int{2, 2, 3}, false},
	}

	for _, tt := range tests {
		board := make([]Tile, len(tt.colors))
		for i, c := range tt.colors {
			board[i] = Tile{ID: i, Color: c}
		}
		if got := IsUniform(board); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestDistinctTargets(t *testing.T) {
	got := DistinctTargets([]int{4, 2, 4, 5, 2})
	want := []int{2, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
}
