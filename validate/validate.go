// Package validate checks level pack files before they are served. It
// checks:
//   - the file parses as JSON or YAML according to its extension
//   - the pack has a name and between one and engine.MaxLevels levels
//   - every level has dense positional tile ids and in-range targets
//   - level ids are unique
//
// Levels whose boards are not all solvable are reported as notes, not errors.
package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/wricardo/mcp-training/chromattis/game/config"
	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/solver"
)

// ValidationResult captures the outcome of validating a single file.
// Notes are informational and never make a file invalid.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// File loads and validates a single pack file
func File(path string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	pack, err := config.ParsePack(data, filepath.Ext(path))
	if err != nil {
		result.fail("Invalid pack file: %v", err)
		return result
	}

	Pack(pack, &result)
	return result
}

// Pack validates a parsed pack, collecting every problem rather than
// stopping at the first one
func Pack(pack *engine.LevelPack, result *ValidationResult) {
	if pack.Name == "" {
		result.fail("Pack name is required")
	}
	if len(pack.Levels) == 0 {
		result.fail("Pack has no levels")
		return
	}
	if len(pack.Levels) > engine.MaxLevels {
		result.fail("Pack has %d levels, at most %d allowed", len(pack.Levels), engine.MaxLevels)
	}

	seen := make(map[string]int, len(pack.Levels))
	unsolvable := 0
	for i, level := range pack.Levels {
		if err := engine.ValidateLevel(level); err != nil {
			result.fail("Level %d: %v", i, err)
			continue
		}
		if level.ID != "" {
			if prev, dup := seen[level.ID]; dup {
				result.fail("Level %d reuses id %q of level %d", i, level.ID, prev)
			}
			seen[level.ID] = i
		}
		if dups := engine.DuplicateTargets(level); dups > 0 {
			result.note("Level %d has %d duplicate target entries", i, dups)
		}
		if !solver.AlwaysSolvable(level) {
			unsolvable++
			result.note("Level %d: some boards cannot be solved (rank %d of %d)", i, solver.Rank(level), len(level.Board))
		}
	}

	if result.Valid {
		result.note("%d levels, %d with unsolvable boards", len(pack.Levels), unsolvable)
	}
}

// Dir validates every pack file in dir, sorted by file name
func Dir(dir string) ([]ValidationResult, error) {
	var files []string
	for _, ext := range config.Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("error finding pack files: %w", err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// Report prints a concise report and returns whether every file was valid
func Report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, note := range result.Notes {
			fmt.Fprintln(w, "  "+note)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	switch {
	case len(results) == 0:
		fmt.Fprintln(w, "No pack files found")
	case allValid:
		fmt.Fprintln(w, "✅ All packs are valid!")
	default:
		fmt.Fprintln(w, "❌ Some packs have errors")
	}
	return allValid
}
