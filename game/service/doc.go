// Package service provides the business logic layer for Chromattis.
//
// The service package implements:
//   - Multi-session puzzle management
//   - Level pack selection and loading
//   - Tap processing with win and best-score events
//   - Level navigation and progress persistence
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// PackManager loads, lists and stores level packs.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the puzzle engine. Each session owns its own engine instance. The engine is
// not synchronized, so every access goes through Session.Do, which holds the
// session lock for the duration of one engine call.
//
// Validation happens here, not in the engine. TapTile and LoadLevel accept a
// strict flag: when set, an unknown tile id or level index is reported as
// ErrInvalidTileID or ErrInvalidLevelIndex; otherwise the engine's silent
// no-op applies.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	packMgr := config.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, packMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.TapTile(ctx, info.ID, 1, false)
package service
