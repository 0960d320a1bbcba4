package models

import "time"

// Difficulty tiers
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyPro    = "pro"
)

// TotalPhases is the length of the fixed draft sequence. Phase indices run
// 0..TotalPhases-1; a session is terminal once its phase index reaches
// TotalPhases.
const TotalPhases = 20

// Bonus is one named scoring bonus applied to a move.
type Bonus struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// MoveBreakdown is the structured scoring detail of a graded move.
type MoveBreakdown struct {
	Base      int     `json:"base"`
	TimeBonus int     `json:"time_bonus"`
	Bonuses   []Bonus `json:"bonuses"`
	Streak    int     `json:"streak"`
	Combo     int     `json:"combo"`
}

// GradedMove is one session turn's record. Never mutated after append.
type GradedMove struct {
	Phase     int           `json:"phase"`
	Action    ActionKind    `json:"action"`
	Entity    string        `json:"entity"`
	Points    int           `json:"points"`
	Reasoning string        `json:"reasoning"`
	TimeTaken float64       `json:"time_taken"`
	Breakdown MoveBreakdown `json:"breakdown"`
}

// GameSession is one interactive draft-vs-opponent run. Mutated exclusively
// through the session store's critical section; terminal (read-only) once
// CurrentPhase reaches TotalPhases.
type GameSession struct {
	ID         string `json:"id"`
	PlayerName string `json:"player_name"`
	Difficulty string `json:"difficulty"`

	// Historical reference for post-hoc comparison
	HistoricalMatchID string `json:"historical_match_id"`

	PlayerPicks   []string `json:"player_picks"`
	PlayerBans    []string `json:"player_bans"`
	OpponentPicks []string `json:"opponent_picks"`
	OpponentBans  []string `json:"opponent_bans"`

	CurrentPhase int  `json:"current_phase"`
	PlayerTurn   bool `json:"player_turn"`

	Score        int          `json:"score"`
	Moves        []GradedMove `json:"moves"`
	StreakCount  int          `json:"streak_count"`
	ComboCount   int          `json:"combo_count"`
	PerfectMoves int          `json:"perfect_moves"`

	Achievements map[string]bool `json:"achievements"`

	FinalWinProbability float64    `json:"final_win_probability"`
	StartedAt           time.Time  `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the session has reached its terminal state.
func (s *GameSession) Completed() bool {
	return s.CurrentPhase >= TotalPhases
}

// HasAchievement reports whether an achievement is already unlocked.
func (s *GameSession) HasAchievement(id string) bool {
	return s.Achievements[id]
}

// Unlock adds an achievement to the session's set.
func (s *GameSession) Unlock(id string) {
	if s.Achievements == nil {
		s.Achievements = make(map[string]bool)
	}
	s.Achievements[id] = true
}

// AchievementList returns the unlocked achievement ids.
func (s *GameSession) AchievementList() []string {
	ids := make([]string, 0, len(s.Achievements))
	for id, ok := range s.Achievements {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// AvailableActions describes what the player may do at the current phase.
type AvailableActions struct {
	ActionType        ActionKind            `json:"action_type"`
	AvailableEntities []string              `json:"available_entities"`
	Recommendations   []DraftRecommendation `json:"recommendations"` // difficulty-gated hints
	TimeLimit         int                   `json:"time_limit"`
	Phase             int                   `json:"phase"`
	PhaseDescription  string                `json:"phase_description"`
}

// FinalScore is the finalized scoring summary of a completed session.
type FinalScore struct {
	BaseScore           int      `json:"base_score"`
	WinProbabilityBonus int      `json:"win_probability_bonus"`
	AchievementBonus    int      `json:"achievement_bonus"`
	TotalScore          int      `json:"total_score"`
	Rating              string   `json:"rating"`
	Rank                string   `json:"rank"`
	MovesMade           int      `json:"moves_made"`
	AverageMoveScore    float64  `json:"average_move_score"`
	PerfectMoves        int      `json:"perfect_moves"`
	Combos              int      `json:"combos"`
	Achievements        []string `json:"achievements"`
}

// Celebration is the qualitative completion tier shown to the player.
type Celebration struct {
	Effects []string `json:"effects"`
	Message string   `json:"message"`
	Rank    string   `json:"rank"`
	Title   string   `json:"title"`
}

// MatchComparison compares the player's draft to the referenced historical
// match's winning roster.
type MatchComparison struct {
	RealTeamPicks  []string `json:"real_team_picks"`
	SharedEntities []string `json:"shared_entities"`
	Similarity     float64  `json:"similarity"`
	RealTeamWon    bool     `json:"real_team_won"`
}

// SessionStats is the per-session breakdown reported at completion.
type SessionStats struct {
	PerfectMoves int     `json:"perfect_moves"`
	ComboCount   int     `json:"combo_count"`
	BestStreak   int     `json:"best_streak"`
	AverageTime  float64 `json:"average_time"`
}

// CompletionResult is the full payload produced when a session finishes.
type CompletionResult struct {
	FinalScore      FinalScore      `json:"final_score"`
	WinProbability  float64         `json:"win_probability"`
	PlayerPicks     []string        `json:"player_picks"`
	PlayerBans      []string        `json:"player_bans"`
	OpponentPicks   []string        `json:"opponent_picks"`
	OpponentBans    []string        `json:"opponent_bans"`
	Comparison      MatchComparison `json:"comparison"`
	NewAchievements []string        `json:"new_achievements"`
	Celebration     Celebration     `json:"celebration"`
	Stats           SessionStats    `json:"stats"`
}

// OpponentMove describes the simulated opponent's response to a player move.
type OpponentMove struct {
	Entity    string     `json:"entity"`
	Action    ActionKind `json:"action"`
	Reasoning string     `json:"reasoning"`
}

// MoveResult is the response to a successful move submission.
type MoveResult struct {
	PlayerMove   GradedMove        `json:"player_move"`
	OpponentMove OpponentMove      `json:"opponent_move"`
	CurrentScore int               `json:"current_score"`
	GameComplete bool              `json:"game_complete"`
	Streak       int               `json:"streak"`
	Combo        int               `json:"combo"`
	PerfectMoves int               `json:"perfect_moves"`
	FinalResults *CompletionResult `json:"final_results,omitempty"`
}
