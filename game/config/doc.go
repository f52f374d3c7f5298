// Package config provides level pack management for Chromattis.
//
// The config package handles:
//   - Loading level packs from JSON and YAML files
//   - Pack validation before anything reaches the engine
//   - Default pack selection
//   - Pack discovery and listing
//
// Pack Format:
//
// A pack file lives in the levels directory as <id>.json, <id>.yaml or
// <id>.yml. Each pack holds a name, a description and an ordered list of
// levels. A level is a list of tiles whose ids equal their position; each
// tile lists the tiles whose color advances when it is tapped.
//
//	name: Warmup
//	levels:
//	  - board:
//	      - {id: 0, target_tiles: [0, 1]}
//	      - {id: 1, target_tiles: [1]}
//
// Levels without an id receive a name-based UUID derived from the pack id
// and level index, so it stays stable across restarts.
//
// The built-in "classic" pack is always available. A file named classic.json
// in the levels directory replaces it.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pack, err := manager.LoadPack("classic")
//	packs, err := manager.ListPacks()
package config
