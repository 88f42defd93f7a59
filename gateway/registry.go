package gateway

import (
	"sync"
)

// Registry is the gateway's channel table: every user maps to the set of
// their live connections (multiple devices or tabs share one channel). It is
// the only shared mutable structure in the gateway; all binding, unbinding
// and broadcasting goes through its lock so a broadcast never targets a
// connection mid-teardown.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[*Conn]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]map[*Conn]struct{}),
	}
}

// Bind adds a connection to the user's channel, creating the channel on
// first contact. Returns true when this is the user's first live connection.
func (r *Registry) Bind(userID string, conn *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.channels[userID]
	if !ok {
		members = make(map[*Conn]struct{})
		r.channels[userID] = members
	}
	members[conn] = struct{}{}
	return len(members) == 1
}

// Unbind removes a connection. The channel itself survives as long as the
// user has other live connections; the empty set is removed to avoid leaking
// entries over time. Returns true when the user has no connections left.
func (r *Registry) Unbind(userID string, conn *Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.channels[userID]
	if !ok {
		return true
	}
	delete(members, conn)
	if len(members) == 0 {
		delete(r.channels, userID)
		return true
	}
	return false
}

// Broadcast enqueues a frame on every connection of the user's channel.
// A connection with a saturated send buffer is skipped rather than blocked
// on: live delivery is best effort. Returns true if at least one connection
// accepted the frame.
func (r *Registry) Broadcast(userID string, frame []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := false
	for conn := range r.channels[userID] {
		select {
		case conn.send <- frame:
			delivered = true
		default:
			// Slow consumer, drop the frame for this connection.
		}
	}
	return delivered
}

// Connections reports the number of live connections for a user.
func (r *Registry) Connections(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels[userID])
}
