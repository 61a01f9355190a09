package websocket

import (
	"sort"
	"sync"
)

// Handle is the delivery endpoint of one registered connection.
type Handle interface {
	// Deliver queues payload without blocking and reports whether it was accepted.
	Deliver(payload []byte) bool
	// Close ends the connection with a reason sent to the peer.
	Close(reason string)
}

// PresenceRegistry maps a participant to its single live connection.
type PresenceRegistry interface {
	// Register replaces any prior mapping and returns the new session token and the replaced handle.
	Register(participantID string, handle Handle) (token uint64, replaced Handle)
	// Unregister removes the mapping only while token is still the current session.
	Unregister(participantID string, token uint64) bool
	Lookup(participantID string) (Handle, bool)
	ListOnline() []string
	// Each calls fn for every registered participant until fn returns false.
	Each(fn func(participantID string, handle Handle) bool)
}

type session struct {
	token  uint64
	handle Handle
}

// Registry is the in-process PresenceRegistry. State is volatile and rebuilt as clients reconnect.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]session
	seq      uint64
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]session),
	}
}

func (r *Registry) Register(participantID string, handle Handle) (uint64, Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	prev, existed := r.sessions[participantID]
	r.sessions[participantID] = session{token: r.seq, handle: handle}

	if existed && prev.handle != handle {
		return r.seq, prev.handle
	}
	return r.seq, nil
}

func (r *Registry) Unregister(participantID string, token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[participantID]
	if !ok || current.token != token {
		return false
	}
	delete(r.sessions, participantID)
	return true
}

func (r *Registry) Lookup(participantID string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[participantID]
	if !ok {
		return nil, false
	}
	return s.handle, true
}

func (r *Registry) ListOnline() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

func (r *Registry) Each(fn func(participantID string, handle Handle) bool) {
	r.mu.RLock()
	snapshot := make(map[string]Handle, len(r.sessions))
	for id, s := range r.sessions {
		snapshot[id] = s.handle
	}
	r.mu.RUnlock()

	for id, h := range snapshot {
		if !fn(id, h) {
			return
		}
	}
}
