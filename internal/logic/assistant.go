package logic

import (
	"fmt"

	"github.com/draftlab/draft-api/internal/models"
)

// AssistantService is the single-call draft analysis facade.
type AssistantService interface {
	Analyze(state *models.DraftState) *models.DraftAnalysis
	Model() *RelationshipModel
	Engine() *Engine
	// AvailablePool returns every known entity not yet picked or banned in
	// the state, in the model's deterministic order.
	AvailablePool(state *models.DraftState) []string
}

type assistantService struct {
	model  *RelationshipModel
	engine *Engine
}

// NewAssistantService composes the relationship model and recommendation
// engine over a loaded corpus.
func NewAssistantService(corpus []models.MatchRecord, minPairSamples int) AssistantService {
	model := BuildRelationshipModel(corpus, minPairSamples)
	return &assistantService{
		model:  model,
		engine: NewEngine(model),
	}
}

func (s *assistantService) Model() *RelationshipModel { return s.model }
func (s *assistantService) Engine() *Engine           { return s.engine }

func (s *assistantService) AvailablePool(state *models.DraftState) []string {
	var pool []string
	for _, e := range s.model.Entities() {
		if !state.Taken(e) {
			pool = append(pool, e)
		}
	}
	return pool
}

// Analyze returns win probabilities, the recommendation list for the active
// turn (ban or pick, inferred from the phase label), and a composition
// summary for both sides.
func (s *assistantService) Analyze(state *models.DraftState) *models.DraftAnalysis {
	pool := s.AvailablePool(state)

	var recs []models.DraftRecommendation
	if state.IsBanPhase() {
		recs = s.engine.RecommendBan(state, state.Turn, pool)
	} else {
		recs = s.engine.RecommendPick(state, state.Turn, pool)
	}

	return &models.DraftAnalysis{
		WinProbabilities: s.engine.PredictWinProbability(state),
		Recommendations:  recs,
		Side1Analysis:    s.analyzeComposition(state.Side1Picks, state.Side2Picks),
		Side2Analysis:    s.analyzeComposition(state.Side2Picks, state.Side1Picks),
		Phase:            state.Phase,
		Turn:             state.Turn,
	}
}

// analyzeComposition renders synergy/counter deltas as qualitative
// strengths and weaknesses at a +/-0.05 threshold.
func (s *assistantService) analyzeComposition(picks, opponentPicks []string) models.TeamAnalysis {
	analysis := models.TeamAnalysis{Entities: picks}
	if len(picks) == 0 {
		return analysis
	}

	analysis.SynergyScore = s.model.TeamSynergy(picks)
	analysis.CounterScore = s.model.CounterScore(picks, opponentPicks)

	switch {
	case analysis.SynergyScore > 0.05:
		analysis.Strengths = append(analysis.Strengths,
			fmt.Sprintf("Strong team synergy (+%.1f%%)", analysis.SynergyScore*100))
	case analysis.SynergyScore < -0.05:
		analysis.Weaknesses = append(analysis.Weaknesses,
			fmt.Sprintf("Poor team synergy (%.1f%%)", analysis.SynergyScore*100))
	}

	switch {
	case analysis.CounterScore > 0.05:
		analysis.Strengths = append(analysis.Strengths,
			fmt.Sprintf("Favorable matchup (+%.1f%%)", analysis.CounterScore*100))
	case analysis.CounterScore < -0.05:
		analysis.Weaknesses = append(analysis.Weaknesses,
			fmt.Sprintf("Unfavorable matchup (%.1f%%)", analysis.CounterScore*100))
	}

	return analysis
}
