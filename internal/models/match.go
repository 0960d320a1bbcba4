package models

// ActionKind is a draft action type
type ActionKind string

const (
	ActionPick ActionKind = "pick"
	ActionBan  ActionKind = "ban"
)

// DraftAction is one step of a historical draft sequence.
type DraftAction struct {
	Entity   string     `json:"entity"`
	Side     int        `json:"side"` // 1 or 2
	Kind     ActionKind `json:"kind"`
	Sequence int        `json:"sequence"`
}

// MatchRecord is one completed historical contest as produced by ingestion.
// Records are immutable once loaded.
type MatchRecord struct {
	MatchID string        `json:"match_id"`
	Actions []DraftAction `json:"actions"`

	Side1Picks []string `json:"side1_picks"`
	Side1Bans  []string `json:"side1_bans"`
	Side2Picks []string `json:"side2_picks"`
	Side2Bans  []string `json:"side2_bans"`

	Side1Won bool `json:"side1_won"`
	Side2Won bool `json:"side2_won"`
}

// Picks returns the final roster for a side.
func (m *MatchRecord) Picks(side int) []string {
	if side == 2 {
		return m.Side2Picks
	}
	return m.Side1Picks
}

// Won reports whether a side won the match.
func (m *MatchRecord) Won(side int) bool {
	if side == 2 {
		return m.Side2Won
	}
	return m.Side1Won
}

// EntityStats is the per-entity view of the relationship model.
type EntityStats struct {
	Entity   string  `json:"entity"`
	WinRate  float64 `json:"win_rate"`
	PickRate float64 `json:"pick_rate"`
	Power    float64 `json:"power"`
	Games    int     `json:"games"`
}
