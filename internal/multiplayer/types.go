// Package multiplayer identifies the sessions and matches hosted by the SSH
// server. Every match is played by a single session, solo or watching the CPU.
package multiplayer

import "github.com/google/uuid"

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies a game match.
type MatchID string

// NewSessionID returns a fresh session ID tagged with the connecting user.
func NewSessionID(username string) SessionID {
	if username == "" {
		username = "anonymous"
	}
	return SessionID(username + "-" + uuid.NewString())
}

// NewMatchID returns a fresh random match ID.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// MatchMode defines how a game match is configured.
type MatchMode int

const (
	// MatchModeSolo is a human playing one of the drills or marathon.
	MatchModeSolo MatchMode = iota

	// MatchModeVsCPU is a session watching the computer player.
	MatchModeVsCPU
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Solo"
	case MatchModeVsCPU:
		return "vs CPU"
	default:
		return "Unknown"
	}
}

// MatchHandle provides access to match metadata.
type MatchHandle interface {
	// ID returns the unique identifier for this match.
	ID() MatchID

	// Mode returns how this match is configured.
	Mode() MatchMode
}

// Match is a concrete implementation of MatchHandle.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs tracks which sessions are part of this match.
	SessionIDs []SessionID
}

// NewMatch creates a new match with the given parameters.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode returns the match mode.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}

// Owner returns the session that started the match, or "" if none.
func (m *Match) Owner() SessionID {
	if len(m.SessionIDs) == 0 {
		return ""
	}
	return m.SessionIDs[0]
}
