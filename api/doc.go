// Package api provides the HTTP REST API for Chromattis puzzle sessions.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session {pack_id, level_index}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session and its saved file
//
// Play:
//   - GET /api/sessions/{id}/state - Current state (?redact=true hides target lists)
//   - POST /api/sessions/{id}/tap - Tap a tile {tile_id} (?strict=true rejects unknown ids)
//   - POST /api/sessions/{id}/undo - Undo the last tap
//   - POST /api/sessions/{id}/preview - Set or clear the previewed tile {tile_id|null}
//   - GET /api/sessions/{id}/hint - Next tap of a minimal solution
//
// Levels and progress:
//   - POST /api/sessions/{id}/level - Load a level {index} (?strict=true)
//   - POST /api/sessions/{id}/next, /prev - Step through the pack
//   - GET, PUT, DELETE /api/sessions/{id}/progress - Best scores
//
// Packs:
//   - GET /api/packs - List level packs
//   - POST /api/packs - Save a pack {name, pack}
//   - GET /api/packs/{name} - Get a pack
//
// Every mutating endpoint pushes the resulting state to websocket
// subscribers at /ws?session=<id>.
//
// Errors are returned as JSON with a matching status code: 404 for unknown
// sessions or packs, 400 for invalid input, 500 otherwise.
//
//	{"error": "session not found: be5e"}
package api
