package multiplayer

import (
	"sync"
	"time"
)

// SessionHandle is the transport-neutral view of a connected session.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// Session is a SessionHandle for one SSH connection.
type Session struct {
	id        SessionID
	username  string
	startedAt time.Time
	done      chan struct{}
	doneOnce  sync.Once
}

// NewSession creates a session for the given user.
func NewSession(id SessionID, username string) *Session {
	return &Session{
		id:        id,
		username:  username,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() SessionID {
	return s.id
}

// Username returns the SSH user that opened the session.
func (s *Session) Username() string {
	return s.username
}

// Uptime returns how long the session has been connected.
func (s *Session) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// Done returns the done channel.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks active sessions.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session from the registry.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
