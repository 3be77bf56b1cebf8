package multiplayer

import "time"

// RunResultData is what a finished match reports for persistence.
type RunResultData struct {
	MatchID   MatchID
	SessionID SessionID
	GameID    string
	Score     int
	Lines     int
	Pieces    int
	Duration  time.Duration
	Won       bool
}

// RunSaver persists finished runs without the platform depending on storage.
type RunSaver interface {
	SaveRunResult(data RunResultData) error
}

// NewRunResult fills in the match identity for a finished run.
func NewRunResult(match *Match, gameID string) RunResultData {
	data := RunResultData{GameID: gameID}
	if match != nil {
		data.MatchID = match.ID()
		data.SessionID = match.Owner()
	}
	return data
}
