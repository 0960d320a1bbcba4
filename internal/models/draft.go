package models

import "strings"

// DraftState is the picks and bans of both sides at one point of a draft.
// A new value is produced per step; analysis never mutates it.
type DraftState struct {
	Side1Picks []string `json:"side1_picks"`
	Side1Bans  []string `json:"side1_bans"`
	Side2Picks []string `json:"side2_picks"`
	Side2Bans  []string `json:"side2_bans"`

	Phase string `json:"phase"` // e.g. "ban1", "pick2", "complete"
	Turn  int    `json:"turn"`  // active side, 1 or 2
}

// IsBanPhase reports whether the current phase label names a ban action.
func (s *DraftState) IsBanPhase() bool {
	return strings.Contains(s.Phase, "ban")
}

// Picks returns one side's picks.
func (s *DraftState) Picks(side int) []string {
	if side == 2 {
		return s.Side2Picks
	}
	return s.Side1Picks
}

// OpponentPicks returns the picks of the side opposing the given side.
func (s *DraftState) OpponentPicks(side int) []string {
	if side == 2 {
		return s.Side1Picks
	}
	return s.Side2Picks
}

// Taken reports whether an entity is already picked or banned by either side.
func (s *DraftState) Taken(entity string) bool {
	for _, group := range [][]string{s.Side1Picks, s.Side1Bans, s.Side2Picks, s.Side2Bans} {
		for _, e := range group {
			if e == entity {
				return true
			}
		}
	}
	return false
}

// Priority tiers for recommendations
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// DraftRecommendation is one ranked pick/ban suggestion.
type DraftRecommendation struct {
	Entity     string   `json:"entity"`
	Impact     float64  `json:"impact"` // score relative to a neutral 0.5 baseline
	Priority   string   `json:"priority"`
	Confidence float64  `json:"confidence"`
	Reasoning  []string `json:"reasoning"`
	Synergies  []string `json:"synergies"`
	Counters   []string `json:"counters"`
}

// PredictionFactors is the per-side breakdown behind a win probability.
type PredictionFactors struct {
	Side1Power       float64 `json:"side1_power"`
	Side2Power       float64 `json:"side2_power"`
	Side1Synergy     float64 `json:"side1_synergy"`
	Side2Synergy     float64 `json:"side2_synergy"`
	CounterAdvantage float64 `json:"counter_advantage"` // side 1 perspective
}

// WinPrediction holds both sides' win probabilities. Side1+Side2 == 1.
type WinPrediction struct {
	Side1   float64           `json:"side1"`
	Side2   float64           `json:"side2"`
	Factors PredictionFactors `json:"factors"`
}

// TeamAnalysis is a qualitative read of one side's composition.
type TeamAnalysis struct {
	Entities     []string `json:"entities"`
	SynergyScore float64  `json:"synergy_score"`
	CounterScore float64  `json:"counter_score"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
}

// DraftAnalysis is the facade's single-call output.
type DraftAnalysis struct {
	WinProbabilities WinPrediction         `json:"win_probabilities"`
	Recommendations  []DraftRecommendation `json:"recommendations"`
	Side1Analysis    TeamAnalysis          `json:"side1_analysis"`
	Side2Analysis    TeamAnalysis          `json:"side2_analysis"`
	Phase            string                `json:"phase"`
	Turn             int                   `json:"turn"`
}
