// Package websocket streams session events to browser and agent observers.
//
// A central Hub owns the set of connected clients keyed by session ID. Clients
// connect with ?sessionId=<id> and receive JSON messages of the form
//
//	{"session_id": "ab12cd34", "event": "step", "data": {...}}
//
// whenever the REST layer steps, moves or resets that session. State
// snapshots are sent with the "state_update" event and a game_state field.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("sessionId"))
//	})
//
// Broadcasting never blocks the caller. When the queue is full the message is
// dropped and a warning is logged, and clients that cannot keep up are
// disconnected.
package websocket
