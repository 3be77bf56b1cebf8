package multiplayer

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionID(t *testing.T) {
	a := NewSessionID("alice")
	b := NewSessionID("alice")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(string(a), "alice-"))
	assert.True(t, strings.HasPrefix(string(NewSessionID("")), "anonymous-"))
	assert.NotEqual(t, NewMatchID(), NewMatchID())
}

func TestMatchModeString(t *testing.T) {
	assert.Equal(t, "Solo", MatchModeSolo.String())
	assert.Equal(t, "vs CPU", MatchModeVsCPU.String())
	assert.Equal(t, "Unknown", MatchMode(9).String())
}

func TestMatch(t *testing.T) {
	m := NewMatch("m1", MatchModeVsCPU, "s1")
	var h MatchHandle = m
	assert.Equal(t, MatchID("m1"), h.ID())
	assert.Equal(t, MatchModeVsCPU, h.Mode())
	assert.Equal(t, []SessionID{"s1"}, m.Sessions())
	assert.Equal(t, SessionID("s1"), m.Owner())
	assert.Equal(t, SessionID(""), NewMatch("m2", MatchModeSolo).Owner())

	data := NewRunResult(m, "tetris_cpu")
	assert.Equal(t, RunResultData{MatchID: "m1", SessionID: "s1", GameID: "tetris_cpu"}, data)
	assert.Equal(t, RunResultData{GameID: "tetris"}, NewRunResult(nil, "tetris"))
}

func TestSessionClose(t *testing.T) {
	s := NewSession("s1", "bob")
	assert.Equal(t, "bob", s.Username())
	s.Close()
	s.Close()
	select {
	case <-s.Done():
	default:
		t.Fatal("session should be done after Close")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Register(NewSession(NewSessionID("u"), "u"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, r.Count())

	s := NewSession("known", "carol")
	r.Register(s)
	got, ok := r.Get("known")
	require.True(t, ok)
	assert.Equal(t, SessionID("known"), got.ID())

	r.Unregister("known")
	_, ok = r.Get("known")
	assert.False(t, ok)
	assert.Equal(t, 10, r.Count())
}
