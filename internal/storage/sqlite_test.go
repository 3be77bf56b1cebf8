package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/blockfall/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("tetris", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("tetris_sprint", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("tetris", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	sprint, err := store.TopScores("tetris_sprint", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(sprint) != 1 {
		t.Errorf("Expected 1 sprint score, got %d", len(sprint))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("tetris", (i+1)*100)
	}

	scores, err := store.TopScores("tetris", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("tetris")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("tetris", 100)
	store.SaveScore("tetris", 300)
	store.SaveScore("tetris", 200)

	high, err = store.HighScore("tetris")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("tetris", 100)
	store.SaveScore("tetris", 200)
	store.SaveScore("tetris_ren", 300)
	store.SaveRun(RunRecord{GameID: "tetris", Score: 200})

	if err := store.ClearScores("tetris"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("tetris", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if runs, _ := store.RecentRuns("tetris", 10); len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	if scores, _ := store.TopScores("tetris_ren", 10); len(scores) != 1 {
		t.Errorf("REN scores should not be affected by clearing marathon")
	}
}

func TestStoreAllScores(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		store.SaveScore("tetris", i*10)
	}

	scores, err := store.AllScores("tetris")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{GameID: "tetris_sprint", Score: 4000, Lines: 40, Pieces: 100, Duration: 95 * time.Second, Won: true},
		{GameID: "tetris_sprint", Score: 1200, Lines: 12, Pieces: 33, Duration: 30 * time.Second},
		{GameID: "tetris_sprint", Score: 4100, Lines: 40, Pieces: 101, Duration: 80*time.Second + 250*time.Millisecond, Won: true},
		{GameID: "tetris", Score: 9000, Lines: 60, Pieces: 160, Duration: 5 * time.Minute},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	recent, err := store.RecentRuns("tetris_sprint", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(recent))
	}
	if recent[0].Duration != 80*time.Second+250*time.Millisecond || !recent[0].Won {
		t.Errorf("Newest run not first: %+v", recent[0])
	}
	if recent[1].Won || recent[1].Lines != 12 {
		t.Errorf("Unexpected second run: %+v", recent[1])
	}

	top, err := store.TopRuns("tetris_sprint", 0)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 || top[0].Score != 4100 || top[2].Score != 1200 {
		t.Errorf("TopRuns() not ordered by score: %+v", top)
	}

	best, err := store.BestRun("tetris_sprint")
	if err != nil {
		t.Fatalf("BestRun() failed: %v", err)
	}
	if best == nil || best.Score != 4100 {
		t.Errorf("Expected fastest cleared run, got %+v", best)
	}

	// Marathon runs are never won.
	best, err = store.BestRun("tetris")
	if err != nil {
		t.Fatalf("BestRun() failed: %v", err)
	}
	if best != nil {
		t.Errorf("Expected no best run, got %+v", best)
	}
}

func TestStoreSaveRunResult(t *testing.T) {
	store := openTestStore(t)

	var saver multiplayer.RunSaver = store
	err := saver.SaveRunResult(multiplayer.RunResultData{
		SessionID: "session-1",
		GameID:    "tetris_practice",
		Score:     1236,
		Lines:     2,
		Pieces:    2,
		Duration:  4 * time.Second,
		Won:       true,
	})
	if err != nil {
		t.Fatalf("SaveRunResult() failed: %v", err)
	}

	runs, err := store.RecentRuns("tetris_practice", 0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].SessionID != "session-1" || runs[0].Duration != 4*time.Second {
		t.Errorf("Unexpected runs: %+v", runs)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("tetris", 100)
	store.SaveScore("tetris", 300)
	store.SaveScore("tetris_cpu", 50)

	stats, err := store.GetGameStats("tetris")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.AvgScore != 200 || stats.TotalScore != 400 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	empty, err := store.GetGameStats("tetris_ren")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["tetris_cpu"].HighScore != 50 {
		t.Errorf("Unexpected all stats: %v", all)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
