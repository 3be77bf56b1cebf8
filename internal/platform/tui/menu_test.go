package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	_ "github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/multiplayer"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOrderedGames(t *testing.T) {
	games := orderedGames()
	require.GreaterOrEqual(t, len(games), len(menuOrder))
	for i, id := range menuOrder {
		assert.Equal(t, id, games[i].ID)
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(nil, testConfig())
	for _, item := range m.items {
		want := multiplayer.MatchModeSolo
		if item.GameID == "tetris_cpu" {
			want = multiplayer.MatchModeVsCPU
		}
		assert.Equal(t, want, item.Mode, item.GameID)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	require.NotNil(t, m.Selected())
	assert.Equal(t, "tetris_sprint", m.Selected().GameID)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "B L O C K F A L L")
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	next, _ := NewMenuModel(nil, testConfig()).Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, next.(MenuModel).WantsScoreboard())

	next, _ = NewMenuModel(nil, testConfig()).Update(runeKey('q'))
	assert.True(t, next.(MenuModel).IsQuitting())
}

func TestBestLabel(t *testing.T) {
	store := openStore(t)
	_, err := store.SaveRun(storage.RunRecord{GameID: "tetris_sprint", Duration: 75*time.Second + 500*time.Millisecond, Won: true})
	require.NoError(t, err)
	_, err = store.SaveScore("tetris", 1200)
	require.NoError(t, err)

	assert.Equal(t, "best 1:15.50", bestLabel(store, "tetris_sprint"))
	assert.Equal(t, "best 1200", bestLabel(store, "tetris"))
	assert.Equal(t, "", bestLabel(store, "tetris_ren"))
	assert.Equal(t, "", bestLabel(nil, "tetris"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00.00", formatDuration(0))
	assert.Equal(t, "0:59.99", formatDuration(59*time.Second+990*time.Millisecond))
	assert.Equal(t, "2:05.10", formatDuration(125*time.Second+100*time.Millisecond))
}

func TestDifficultyModel(t *testing.T) {
	m := NewDifficultyModel("40 Lines Sprint", 80, 24)
	assert.Contains(t, m.View(), "40 LINES SPRINT")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(DifficultyModel)
	require.NotNil(t, got.Selected())
	assert.Equal(t, config.DifficultyHard, *got.Selected())

	next, _ = NewDifficultyModel("x", 80, 24).Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, next.(DifficultyModel).WantsBack())
	assert.Nil(t, next.(DifficultyModel).Selected())
}
