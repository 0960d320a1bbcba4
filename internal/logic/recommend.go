package logic

import (
	"fmt"
	"sort"

	"github.com/draftlab/draft-api/internal/models"
)

const (
	// At most this many pool entries are evaluated per recommendation call.
	// Pool order is a caller contract; pools at or below the cap are
	// evaluated in full.
	maxEvaluated = 30

	// At most this many recommendations are returned.
	maxReturned = 10
)

// Engine scores draft states and ranks candidate picks and bans against the
// relationship model.
type Engine struct {
	model *RelationshipModel
}

func NewEngine(model *RelationshipModel) *Engine {
	return &Engine{model: model}
}

// PredictWinProbability estimates both sides' win probability from the
// current picks. Each side scores mean power + team synergy +/- the counter
// advantage (computed from side 1's perspective); scores normalize to
// probabilities summing to 1. Empty drafts and degenerate score sums fall
// back to 0.5/0.5.
func (e *Engine) PredictWinProbability(state *models.DraftState) models.WinPrediction {
	factors := models.PredictionFactors{
		Side1Power:       e.meanPower(state.Side1Picks),
		Side2Power:       e.meanPower(state.Side2Picks),
		Side1Synergy:     e.model.TeamSynergy(state.Side1Picks),
		Side2Synergy:     e.model.TeamSynergy(state.Side2Picks),
		CounterAdvantage: e.model.CounterScore(state.Side1Picks, state.Side2Picks),
	}

	score1 := factors.Side1Power + factors.Side1Synergy + factors.CounterAdvantage
	score2 := factors.Side2Power + factors.Side2Synergy - factors.CounterAdvantage

	pred := models.WinPrediction{Side1: 0.5, Side2: 0.5, Factors: factors}
	if total := score1 + score2; total > 0 {
		pred.Side1 = score1 / total
		pred.Side2 = score2 / total
	}
	return pred
}

func (e *Engine) meanPower(picks []string) float64 {
	if len(picks) == 0 {
		return 0.5
	}
	var total float64
	for _, p := range picks {
		total += e.model.Power(p)
	}
	return total / float64(len(picks))
}

// RecommendPick ranks candidates for a side's next pick. Up to the first 30
// pool entries are evaluated; each candidate is hypothetically appended to
// the side's picks and scored. The top 10 come back sorted by descending
// impact. An empty pool yields an empty list.
func (e *Engine) RecommendPick(state *models.DraftState, side int, pool []string) []models.DraftRecommendation {
	myPicks := state.Picks(side)
	oppPicks := state.OpponentPicks(side)

	if len(pool) > maxEvaluated {
		pool = pool[:maxEvaluated]
	}

	recs := make([]models.DraftRecommendation, 0, len(pool))
	for _, candidate := range pool {
		hypothetical := append(append([]string{}, myPicks...), candidate)

		power := e.model.Power(candidate)
		synergy := e.model.TeamSynergy(hypothetical)
		counter := e.model.CounterScore(hypothetical, oppPicks)
		totalScore := power + synergy*0.3 + counter*0.4

		var reasoning, synergies, counters []string

		for _, mine := range myPicks {
			if v := e.model.Synergy(candidate, mine); v > 0.05 {
				synergies = append(synergies, fmt.Sprintf("%s (+%.1f%%)", mine, v*100))
			}
		}
		if len(synergies) > 0 {
			reasoning = append(reasoning, "Strong synergy with "+joinTop(synergies, 2))
		}

		for _, theirs := range oppPicks {
			if v := e.model.Counter(candidate, theirs); v > 0.6 {
				counters = append(counters, fmt.Sprintf("%s (%.0f%% WR)", theirs, v*100))
			}
		}
		if len(counters) > 0 {
			reasoning = append(reasoning, "Counters "+joinTop(counters, 2))
		}

		if power > 0.52 {
			reasoning = append(reasoning, fmt.Sprintf("Strong meta pick (%.1f%% WR)", power*100))
		}
		if len(reasoning) == 0 {
			reasoning = []string{"Solid option"}
		}

		recs = append(recs, models.DraftRecommendation{
			Entity:     candidate,
			Impact:     totalScore - 0.5,
			Priority:   pickPriority(totalScore),
			Confidence: clamp01(power * 2),
			Reasoning:  reasoning,
			Synergies:  synergies,
			Counters:   counters,
		})
	}

	sortByImpact(recs)
	return truncate(recs)
}

// RecommendBan ranks candidates by the threat they pose to the banning side:
// half raw power, 0.3 weight on how hard the candidate counters our current
// picks, 0.2 on popularity. Top 10, descending threat.
func (e *Engine) RecommendBan(state *models.DraftState, side int, pool []string) []models.DraftRecommendation {
	myPicks := state.Picks(side)

	if len(pool) > maxEvaluated {
		pool = pool[:maxEvaluated]
	}

	recs := make([]models.DraftRecommendation, 0, len(pool))
	for _, candidate := range pool {
		power := e.model.Power(candidate)
		pickRate := e.model.PickRate(candidate)

		var threatToUs float64
		if len(myPicks) > 0 {
			for _, mine := range myPicks {
				threatToUs += e.model.Counter(candidate, mine) - 0.5
			}
			threatToUs /= float64(len(myPicks))
		}

		threat := power*0.5 + threatToUs*0.3 + pickRate*0.2

		var reasoning []string
		if power > 0.53 {
			reasoning = append(reasoning, fmt.Sprintf("High win rate (%.1f%%)", power*100))
		}
		if pickRate > 0.3 {
			reasoning = append(reasoning, fmt.Sprintf("Commonly picked (%.1f%% pick rate)", pickRate*100))
		}
		if threatToUs > 0.05 {
			reasoning = append(reasoning, "Counters our composition")
		}
		if len(reasoning) == 0 {
			reasoning = []string{"Standard ban"}
		}

		recs = append(recs, models.DraftRecommendation{
			Entity:     candidate,
			Impact:     threat,
			Priority:   banPriority(threat),
			Confidence: clamp01(pickRate * 3),
			Reasoning:  reasoning,
		})
	}

	sortByImpact(recs)
	return truncate(recs)
}

func pickPriority(score float64) string {
	switch {
	case score > 0.65:
		return models.PriorityCritical
	case score > 0.55:
		return models.PriorityHigh
	case score > 0.50:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func banPriority(threat float64) string {
	switch {
	case threat > 0.6:
		return models.PriorityCritical
	case threat > 0.55:
		return models.PriorityHigh
	default:
		return models.PriorityMedium
	}
}

// sortByImpact orders descending by impact, keeping pool order for ties so
// results stay deterministic under the caller-ordering contract.
func sortByImpact(recs []models.DraftRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Impact > recs[j].Impact
	})
}

func truncate(recs []models.DraftRecommendation) []models.DraftRecommendation {
	if len(recs) > maxReturned {
		return recs[:maxReturned]
	}
	return recs
}

func joinTop(parts []string, n int) string {
	if len(parts) > n {
		parts = parts[:n]
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
