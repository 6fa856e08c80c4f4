// Package port provides the opaque ID generator backing Port cells
// (spec.md §3): every open/string/websocket port gets a process-unique
// ID via google/uuid rather than exposing the underlying Go handle to
// Scheme code, matching the indirection packages dbconn and netconn use
// for database and WebSocket handles.
package port

import "github.com/google/uuid"

// NewID returns a fresh opaque port identifier.
func NewID() string {
	return uuid.NewString()
}
