// Package mcp exposes a single Chromattis session to AI agents over the
// Model Context Protocol.
//
// The client is a thin proxy over the REST API. It is bound to one session,
// either an existing one (WithSession) or one it creates with StartSession,
// and registers exactly two tools:
//   - get_state: return the current game state as JSON
//   - tap_tile: tap the tile with the given integer tile_id and return the
//     resulting state
//
// Taps on unknown tiles are forwarded without strict validation, so they
// come back as an unchanged state rather than an error. WithRedaction strips
// every tile's target list from results, leaving the agent to discover the
// puzzle's topology by experiment.
//
// Usage:
//
//	client := mcp.NewClient("http://127.0.0.1:8080", mcp.WithRedaction(true))
//	if _, err := client.StartSession(ctx, "classic", 0); err != nil {
//		return err
//	}
//	server.ServeStdio(client.GetMCPServer())
package mcp
