// Package session provides in-memory session management for Neutreeko games.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short random session IDs derived from UUIDs
//   - Case-insensitive lookups
//   - Expiry of sessions that have not been accessed recently
//
// Core Types:
//
// Manager stores service.Session values, each owning its own agent
// environment and engine. Sessions live only in memory; restarting the
// process drops them.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// Periodically drop idle sessions
//	removed := manager.CleanupExpiredSessions(30 * time.Minute)
package session
