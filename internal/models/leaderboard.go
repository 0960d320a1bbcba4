package models

import "time"

// LeaderboardEntry is one completed session on the leaderboard.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	SessionID      string    `json:"session_id"`
	PlayerName     string    `json:"player_name"`
	Score          int       `json:"score"`
	Rating         string    `json:"rating"`
	Difficulty     string    `json:"difficulty"`
	WinProbability float64   `json:"win_probability"`
	CompletedAt    time.Time `json:"completed_at"`
}
