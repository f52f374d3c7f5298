package engine

import (
	"fmt"
)

// ValidateLevelPack validates a level pack for structural correctness.
// Duplicate ids inside a target list are allowed; taps deduplicate them.
func ValidateLevelPack(pack *LevelPack) error {
	if pack == nil {
		return fmt.Errorf("pack validation: pack is nil")
	}
	if pack.Name == "" {
		return fmt.Errorf("pack validation: name is required")
	}
	if len(pack.Levels) == 0 {
		return fmt.Errorf("pack validation: at least one level is required")
	}
	if len(pack.Levels) > MaxLevels {
		return fmt.Errorf("pack validation: at most %d levels allowed, got %d", MaxLevels, len(pack.Levels))
	}

	seen := make(map[string]int, len(pack.Levels))
	for i, level := range pack.Levels {
		if err := ValidateLevel(level); err != nil {
			return fmt.Errorf("pack validation: level %d: %w", i, err)
		}
		if level.ID == "" {
			continue
		}
		if prev, dup := seen[level.ID]; dup {
			return fmt.Errorf("pack validation: level %d reuses id %q of level %d", i, level.ID, prev)
		}
		seen[level.ID] = i
	}

	return nil
}

// ValidateLevel checks that tile ids are dense and positional, that every
// target resolves to a tile, and that start colors fit the palette
func ValidateLevel(level LevelDefinition) error {
	n := len(level.Board)
	if n < MinTiles || n > MaxTiles {
		return fmt.Errorf("board must have between %d and %d tiles, got %d", MinTiles, MaxTiles, n)
	}

	for pos, tile := range level.Board {
		if tile.ID != pos {
			return fmt.Errorf("tile at position %d has id %d; ids must match positions", pos, tile.ID)
		}
		if tile.StartColor < 0 || tile.StartColor >= PaletteSize {
			return fmt.Errorf("tile %d start_color must be between 0 and %d, got %d", tile.ID, PaletteSize-1, tile.StartColor)
		}
		for _, target := range tile.TargetTiles {
			if target < 0 || target >= n {
				return fmt.Errorf("tile %d targets unknown tile %d", tile.ID, target)
			}
		}
	}

	return nil
}

// DuplicateTargets counts target entries that repeat an id already listed
// by the same tile
func DuplicateTargets(level LevelDefinition) int {
	count := 0
	for _, tile := range level.Board {
		count += len(tile.TargetTiles) - len(DistinctTargets(tile.TargetTiles))
	}
	return count
}
