package bot

import "sync"

// Store maps user identifiers to their sessions. Sessions are created
// lazily on first contact and are never evicted except by an explicit
// Delete; unbounded growth is an accepted operational trade-off.
//
// Processing for a single user is serialized: Acquire hands out the session
// with that user's lock held, so two near-simultaneous messages from the
// same number cannot interleave step mutations. Different users proceed
// independently.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*storeEntry
}

type storeEntry struct {
	mu   sync.Mutex
	sess *Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*storeEntry)}
}

// Acquire returns the session for userID, creating it if needed, with the
// per-user lock held. The caller must invoke release exactly once when done
// mutating the session.
func (st *Store) Acquire(userID string) (sess *Session, release func()) {
	st.mu.Lock()
	e, ok := st.sessions[userID]
	if !ok {
		e = &storeEntry{sess: newSession(userID)}
		st.sessions[userID] = e
	}
	st.mu.Unlock()

	e.mu.Lock()
	return e.sess, e.mu.Unlock
}

// Get returns a deep copy of the session for userID, or false if the user
// has never messaged. It never creates a session.
func (st *Store) Get(userID string) (*Session, bool) {
	st.mu.Lock()
	e, ok := st.sessions[userID]
	st.mu.Unlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.clone(), true
}

// Delete removes the session for userID. A holder of a previously acquired
// session may finish its in-flight message against the orphaned state.
func (st *Store) Delete(userID string) {
	st.mu.Lock()
	delete(st.sessions, userID)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
