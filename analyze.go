package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/chromattis/game/config"
	"github.com/wricardo/mcp-training/chromattis/game/engine"
	"github.com/wricardo/mcp-training/chromattis/game/levels"
	"github.com/wricardo/mcp-training/chromattis/game/solver"
	"github.com/wricardo/mcp-training/chromattis/validate"
)

// reportOutput receives the plain-text reports of analyze and validate
var reportOutput io.Writer = os.Stdout

// runAnalyze prints per-level figures for every pack, or only --pack
func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	packs, err := config.NewManager(cmd.String("levels-dir"))
	if err != nil {
		return err
	}

	infos, err := packs.ListPacks()
	if err != nil {
		return err
	}

	only := cmd.String("pack")
	for _, info := range infos {
		if only != "" && info.PackID != only {
			continue
		}
		pack, err := packs.LoadPack(info.PackID)
		if err != nil {
			fmt.Fprintf(reportOutput, "\n=== Analyzing %s ===\nError: %v\n", info.PackID, err)
			continue
		}
		analyzePack(reportOutput, info.PackID, pack)
	}
	return nil
}

// analyzePack reports tile count, duplicate target entries, the rank of the
// level's move matrix over GF(7), and whether every coloring is solvable
func analyzePack(w io.Writer, id string, pack *engine.LevelPack) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", id)
	fmt.Fprintf(w, "Name: %s\n", pack.Name)
	if pack.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", pack.Description)
	}
	fmt.Fprintf(w, "Levels: %d\n", len(pack.Levels))

	always := 0
	for i, level := range pack.Levels {
		solvable := solver.AlwaysSolvable(level)
		if solvable {
			always++
		}

		mark := "✓"
		if !solvable {
			mark = "✗"
		}
		fmt.Fprintf(w, "  Level %2d: %2d tiles, %d duplicate targets, rank %2d/%-2d %s always solvable\n",
			i, len(level.Board), engine.DuplicateTargets(level), solver.Rank(level), len(level.Board), mark)
	}

	fmt.Fprintf(w, "Always solvable: %d/%d\n", always, len(pack.Levels))
}

// runValidate validates every pack file plus the built-in catalog
func runValidate(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd)

	results, err := validate.Dir(cmd.String("levels-dir"))
	if err != nil {
		return err
	}

	builtin := validate.ValidationResult{File: levels.ClassicPackID + " (builtin)", Valid: true}
	validate.Pack(levels.Classic(), &builtin)
	results = append(results, builtin)

	if !validate.Report(reportOutput, results) {
		return cli.Exit("some packs have errors", 1)
	}
	return nil
}
