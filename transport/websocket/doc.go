// Package websocket pushes live puzzle state to browser clients.
//
// A central Hub owns every connection. Clients subscribe to one session with
// the ?session=<id> query parameter and receive a JSON Message whenever that
// session changes:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// Messages are written one per WebSocket frame. Incoming client messages are
// read only to keep the connection alive.
//
// Registration, removal and broadcast all go through channels drained by
// Run, so the per-session client sets are only touched by that goroutine.
// Broadcasts never block the caller: when the queue is full the message is
// dropped and logged.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
