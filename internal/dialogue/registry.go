package dialogue

import (
	"sync"
	"time"
)

// Registry owns the mapping from call ID to live session. It is constructed
// once at service start and injected wherever sessions are needed; there is
// no package-level state.
//
// Concurrency model: turns for one call arrive strictly sequentially from the
// telephony provider, but different calls run in parallel. Acquire hands out
// the session with a per-call lock held so a late retry can never interleave
// with the current turn, while unrelated calls never contend.
type Registry struct {
	mu    sync.Mutex
	calls map[string]*callEntry
}

type callEntry struct {
	mu      sync.Mutex
	session *Session
}

func NewRegistry() *Registry {
	return &Registry{calls: make(map[string]*callEntry)}
}

// Acquire returns the session for callID with its per-call lock held,
// creating a fresh NotStarted session if none exists. The returned release
// function must be called when the turn finishes, on every exit path.
//
// A call ID reused after eviction starts over with no memory of the earlier
// call; that is intentional.
func (r *Registry) Acquire(callID, from string, at time.Time) (*Session, func()) {
	r.mu.Lock()
	e, ok := r.calls[callID]
	if !ok {
		e = &callEntry{session: NewSession(callID, from, at)}
		r.calls[callID] = e
	}
	r.mu.Unlock()

	e.mu.Lock()
	return e.session, e.mu.Unlock
}

// Take evicts the session for callID and returns it. It waits on the
// per-call lock first, so a turn still in flight (a late gather retry
// racing the hangup callback) finishes before the snapshot is read.
func (r *Registry) Take(callID string) (*Session, bool) {
	r.mu.Lock()
	e, ok := r.calls[callID]
	if ok {
		delete(r.calls, callID)
	}
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, true
}

// Remove evicts the session for callID. Removing an unknown ID is a no-op.
func (r *Registry) Remove(callID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calls, callID)
}

// Active returns the number of live sessions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
