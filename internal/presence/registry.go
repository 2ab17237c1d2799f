// Package presence tracks which users currently hold a live transport
// handle. The registry is the single owner of this state; transport
// callbacks mutate it concurrently.
package presence

import (
	"sync"
	"time"
)

// Handle is a live connection capable of receiving a push. The registry
// never closes handles; connection lifetime belongs to the transport.
type Handle interface {
	Send(payload []byte) error
}

type entry struct {
	handle      Handle
	connectedAt time.Time
}

type Registry struct {
	mu       sync.RWMutex
	byUser   map[string]entry
	byHandle map[Handle]string
}

func NewRegistry() *Registry {
	return &Registry{
		byUser:   make(map[string]entry),
		byHandle: make(map[Handle]string),
	}
}

// Connect registers or replaces the handle for userID. A reconnect
// supersedes the stale handle (last connection wins); the displaced
// handle is dropped from the index but not closed.
func (r *Registry) Connect(userID string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byUser[userID]; ok {
		delete(r.byHandle, old.handle)
	}
	r.byUser[userID] = entry{handle: h, connectedAt: time.Now()}
	r.byHandle[h] = userID
}

// Disconnect removes the entry for userID; no-op if absent.
func (r *Registry) Disconnect(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byUser[userID]; ok {
		delete(r.byHandle, e.handle)
		delete(r.byUser, userID)
	}
}

// DisconnectHandle removes whichever user holds h, if any. Used when the
// transport reports a low-level drop without a logical disconnect. The
// reverse index makes this O(1). If the user already reconnected with a
// newer handle, the drop of the stale one is a no-op.
func (r *Registry) DisconnectHandle(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byHandle[h]
	if !ok {
		return
	}
	if e, ok := r.byUser[userID]; ok && e.handle == h {
		delete(r.byUser, userID)
	}
	delete(r.byHandle, h)
}

func (r *Registry) Reachable(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUser[userID]
	return ok
}

func (r *Registry) HandleFor(userID string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byUser[userID]
	if !ok {
		return nil, false
	}
	return e.handle, true
}

// ConnectedAt reports when the current handle for userID registered.
func (r *Registry) ConnectedAt(userID string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byUser[userID]
	if !ok {
		return time.Time{}, false
	}
	return e.connectedAt, true
}

// Online returns the ids of all currently reachable users.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	return ids
}
