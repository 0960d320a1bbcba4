package logic

import (
	"testing"

	"github.com/draftlab/draft-api/internal/models"
)

func TestAvailablePoolExcludesTaken(t *testing.T) {
	svc := NewAssistantService(testCorpus(), DefaultMinPairSamples)

	state := &models.DraftState{
		Side1Picks: []string{"A"},
		Side1Bans:  []string{"C"},
		Side2Picks: []string{"E"},
		Side2Bans:  []string{"F"},
	}
	pool := svc.AvailablePool(state)
	want := []string{"B", "D"}
	if len(pool) != len(want) {
		t.Fatalf("pool = %v, want %v", pool, want)
	}
	for i := range want {
		if pool[i] != want[i] {
			t.Errorf("pool[%d] = %s, want %s", i, pool[i], want[i])
		}
	}
}

func TestAnalyzeInfersActionFromPhase(t *testing.T) {
	svc := NewAssistantService(testCorpus(), DefaultMinPairSamples)

	banState := &models.DraftState{Phase: "ban1", Turn: 1}
	pickState := &models.DraftState{Phase: "pick2", Turn: 2}

	banAnalysis := svc.Analyze(banState)
	pickAnalysis := svc.Analyze(pickState)

	if len(banAnalysis.Recommendations) == 0 || len(pickAnalysis.Recommendations) == 0 {
		t.Fatal("analysis produced no recommendations")
	}
	// Ban reasoning differs in register from pick reasoning; an empty-board
	// ban recommendation never mentions synergy partners.
	for _, rec := range banAnalysis.Recommendations {
		if len(rec.Synergies) != 0 {
			t.Errorf("ban recommendation carries synergies: %+v", rec)
		}
	}
	if banAnalysis.Phase != "ban1" || banAnalysis.Turn != 1 {
		t.Errorf("analysis echoes phase/turn = %s/%d", banAnalysis.Phase, banAnalysis.Turn)
	}
}

func TestAnalyzeCompositionNotes(t *testing.T) {
	svc := NewAssistantService(testCorpus(), DefaultMinPairSamples)

	analysis := svc.Analyze(&models.DraftState{
		Side1Picks: []string{"A", "B"},
		Side2Picks: []string{"C", "D"},
		Phase:      "pick1",
		Turn:       1,
	})

	// A/B: synergy 0.25 and a dominant matchup vs C/D.
	if len(analysis.Side1Analysis.Strengths) == 0 {
		t.Errorf("side1 strengths empty: %+v", analysis.Side1Analysis)
	}
	if len(analysis.Side2Analysis.Weaknesses) == 0 {
		t.Errorf("side2 weaknesses empty: %+v", analysis.Side2Analysis)
	}
	if analysis.WinProbabilities.Side1 <= analysis.WinProbabilities.Side2 {
		t.Errorf("probabilities = %+v, want side1 favored", analysis.WinProbabilities)
	}
}

func TestAnalyzeEmptyState(t *testing.T) {
	svc := NewAssistantService(testCorpus(), DefaultMinPairSamples)

	analysis := svc.Analyze(&models.DraftState{Phase: "ban1", Turn: 1})
	if !almost(analysis.WinProbabilities.Side1, 0.5) {
		t.Errorf("empty state side1 = %v, want 0.5", analysis.WinProbabilities.Side1)
	}
	if len(analysis.Side1Analysis.Entities) != 0 {
		t.Errorf("empty state side1 entities = %v", analysis.Side1Analysis.Entities)
	}
}
