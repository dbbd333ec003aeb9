// Package api exposes the game service over HTTP with gorilla/mux.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions              create ({"config_id": "easy"})
//   - GET    /api/sessions              list (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}         session info
//   - DELETE /api/sessions/{id}         delete
//
// Game:
//   - GET  /api/sessions/{id}/state    state, done flag, observation and legal actions
//   - GET  /api/sessions/{id}/moves    ?player=white|black|1|2&mode=valid|all
//   - POST /api/sessions/{id}/move     {"row": 0, "col": 1, "direction": "down"}
//   - POST /api/sessions/{id}/step     {"action": 5}
//   - POST /api/sessions/{id}/reset
//   - GET  /api/sessions/{id}/render   JSON, or text/plain with Accept: text/plain
//   - GET  /api/sessions/{id}/history  ?page=&limit=&order=
//
// Configuration:
//   - GET  /api/configs
//   - GET  /api/configs/{name}
//   - POST /api/configs                {"config_id": "...", ...GameConfig fields}
//
// Other:
//   - GET /health
//   - GET /ws?sessionId={id}           event stream, see package websocket
//
// Errors are JSON objects {"error": "...", "code": N}. Domain errors map to
// status codes: unknown sessions and configs are 404, illegal moves 422,
// moves out of turn or after the game or episode ended 409, unsupported
// legality modes 501 and malformed input 400.
package api
